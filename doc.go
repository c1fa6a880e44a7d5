/*
Package ini reads, edits and writes INI documents, and binds them to Go
structs.

A document is a File: an ordered collection of sections, each an ordered
multi-map from option names to one or more string values. Comments are kept
at document, section and option level. The dialect is selected by a Config
value, which controls repeated sections and options, comments, escapes,
operators and character encoding.

Loading and storing:

	f := ini.New(ini.DefaultConfig())
	if err := f.Load(r); err != nil {
		// handle error
	}
	s, err := f.Section("server")
	if err != nil {
		// errors.Is(err, ini.ErrNotFound)
	}
	host, _ := s.Get("host")
	s.Add("alias", "www")
	if err := f.Store(w); err != nil {
		// handle error
	}

Single value access returns the last value of an option. With
Config.MultiOption every occurrence of an option is kept and written on its
own line; without it the last occurrence wins.

Binding to structs:

	type Server struct {
		Host    string        `ini:"host"`
		Port    int           `ini:"port"`
		Aliases []string      `ini:"alias,omitempty"`
		Timeout time.Duration `ini:"timeout,optional"`
	}

	type Config struct {
		Server  Server
		Backend []Server `ini:"backend"`
	}

	var cfg Config
	if err := ini.Unmarshal(data, &cfg, ini.Strict()); err != nil {
		// handle error
	}

The names a struct can be bound to are fixed by its type before any input is
read. Option and section names that no field declares are ignored, and
Binding rejects undeclared names with ErrInvalidArgument.

Section.Fetch expands ${option} and ${section/option} references in values.
Expansion is bounded in depth, reference count and size.
*/
package ini
