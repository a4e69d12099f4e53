package configs

// Generic helpers as top-level functions (methods cannot have type parameters yet)

var defaultConverter = New()

func Copy[T any](c *Converter, dst *T, raw any) error { return c.Into(dst, raw) }

func AssembleTo[T any](c *Converter, raw any) (*T, error) {
	var d T
	if err := c.Into(&d, raw); err != nil {
		return nil, err
	}
	return &d, nil
}

func Make[T any](c *Converter, raw any) (T, error) {
	var d T
	err := c.Into(&d, raw)
	return d, err
}

// FromRaw converts raw into a new T using the package default Converter.
func FromRaw[T any](raw any) (*T, error) { return AssembleTo[T](defaultConverter, raw) }

// FromFile loads a config file into a new T using the package default Converter.
func FromFile[T any](path string) (*T, error) {
	var d T
	if err := defaultConverter.IntoFile(&d, path); err != nil {
		return nil, err
	}
	return &d, nil
}
