package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Templates carries the versioned prompt configuration. Boilerplate lists
// the fixed literal strings the generator may emit verbatim; the verifier
// exempts them from the veracity check.
type Templates struct {
	Version         int      `yaml:"version"`
	SystemPrompt    string   `yaml:"system_prompt"`
	NarrativePrompt string   `yaml:"narrative_prompt"`
	Boilerplate     []string `yaml:"boilerplate"`
}

// DefaultTemplates returns the built-in prompt configuration.
func DefaultTemplates() *Templates {
	return &Templates{
		Version:      1,
		SystemPrompt: "Eres un redactor técnico que convierte datos de encuestas de movilidad en prosa clara y fiel a los datos.",
		NarrativePrompt: `Redacta un informe de movilidad para {company} ({site}, {address}).

Reglas estrictas:
1. Describe los hechos EXACTAMENTE en el orden en que aparecen, por su campo "index".
2. Usa únicamente la información de los hechos; no inventes valores, cifras ni entidades.
3. Menciona la respuesta de cada hecho al menos una vez, con su texto literal.
4. Organiza el texto en estas secciones, por su nombre exacto:
{sections}
Hechos (JSON):
{facts}
`,
		Boilerplate: []string{
			"Este informe resume las respuestas de la encuesta de movilidad.",
			"Los datos proceden de la encuesta realizada a la plantilla.",
		},
	}
}

// LoadTemplates reads a templates file, falling back to defaults for any
// field the file leaves empty.
func LoadTemplates(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	t := DefaultTemplates()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
