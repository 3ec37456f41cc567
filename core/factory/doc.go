// Package factory provides a small generic registry used to instantiate
// modules from configuration. A module is named by a type string and
// carries a map of raw settings; factories decode the settings into typed
// structs and return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[Sink]()
//	reg.Register("file", func(conf map[string]any) (Sink, error) {
//	    var c struct {
//	        Path string `json:"path"`
//	    }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewFileSink(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "events.log"}})
package factory
