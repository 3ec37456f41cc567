// Package prediction defines the interface through which the API and CLI
// consume the prediction engine. The indirection keeps transport code
// independent of the engine implementation and lets tests substitute
// canned results.
package prediction
