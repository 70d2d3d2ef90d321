package library

// yamlPattern is the intermediate struct for parsing a pattern file entry.
// Maps YAML fields to types.Pattern.
type yamlPattern struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Pattern          string   `yaml:"pattern"`
	Description      string   `yaml:"description,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
	Categories       []string `yaml:"categories,omitempty"`
	Keywords         []string `yaml:"keywords,omitempty"`
}

// yamlPatternsFile is the top-level structure of a pattern file.
type yamlPatternsFile struct {
	Patterns []yamlPattern `yaml:"patterns"`
}
