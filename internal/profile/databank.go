package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Databank is the qa_databank.yaml document: previously answered application
// questions plus structured identity, salary and work-authorization records.
type Databank struct {
	Questions         QuestionBank      `yaml:"questions"`
	PersonalInfo      PersonalInfo      `yaml:"personal_info"`
	Salary            SalaryInfo        `yaml:"salary"`
	WorkAuthorization WorkAuthorization `yaml:"work_authorization"`
}

// PersonalInfo holds identity fields served by the semantic matcher rules.
type PersonalInfo struct {
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
	LinkedIn string `yaml:"linkedin"`
}

type SalaryInfo struct {
	ExpectedSalary string `yaml:"expected_salary"`
}

type WorkAuthorization struct {
	EligibleToWork     string `yaml:"eligible_to_work"`
	RequireSponsorship string `yaml:"require_sponsorship"`
	NoticePeriod       string `yaml:"notice_period"`
}

// QuestionBank preserves the file order of the question mapping. The matcher
// breaks similarity ties by first-seen order, so a plain map won't do.
type QuestionBank []BankEntry

// BankEntry is a single stored question with its saved answer. The answer may
// be empty: the surrounding tooling appends unanswered questions for the user
// to fill in later, and the matcher skips them.
type BankEntry struct {
	Question string
	Answer   string
}

// UnmarshalYAML decodes a YAML mapping into ordered entries.
func (b *QuestionBank) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("questions: expected a mapping, got %s", node.Tag)
	}

	entries := make(QuestionBank, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var entry BankEntry
		if err := node.Content[i].Decode(&entry.Question); err != nil {
			return fmt.Errorf("questions: decoding key: %w", err)
		}
		if err := node.Content[i+1].Decode(&entry.Answer); err != nil {
			return fmt.Errorf("questions %q: decoding answer: %w", entry.Question, err)
		}
		entries = append(entries, entry)
	}

	*b = entries
	return nil
}

// LoadDatabank reads and parses the Q&A databank from path. A missing file is
// not an error: the matcher still serves the semantic field rules, so an empty
// databank is returned instead.
func LoadDatabank(path string) (*Databank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Databank{}, nil
		}
		return nil, fmt.Errorf("reading databank %q: %w", path, err)
	}

	var bank Databank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parsing databank %q: %w", path, err)
	}

	return &bank, nil
}
