package sensor

// yamlPosition is a point in a YAML report file.
type yamlPosition struct {
	X *int64 `yaml:"x"`
	Y *int64 `yaml:"y"`
}

// yamlReport is one sensor entry. "beacon" is accepted as an alias of
// "object" to match the text format's wording.
type yamlReport struct {
	Sensor *yamlPosition `yaml:"sensor"`
	Object *yamlPosition `yaml:"object,omitempty"`
	Beacon *yamlPosition `yaml:"beacon,omitempty"`
}

// yamlReportsFile is the top-level structure of a YAML report file.
type yamlReportsFile struct {
	Sensors []yamlReport `yaml:"sensors"`
}
