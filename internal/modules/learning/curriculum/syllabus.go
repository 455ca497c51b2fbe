package curriculum

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
)

const SyllabusPathEnv = "CURRICULUM_SYLLABUS_YAML"

//go:embed default_syllabus.yaml
var syllabusFS embed.FS

// keyNamespace derives stable placeholder ids for validation before anything
// is stored.
var keyNamespace = uuid.MustParse("6f1c3e52-9a4b-4c2d-8e07-3b5d1a9f0c11")

type Syllabus struct {
	Name     string        `yaml:"syllabus"`
	Version  int           `yaml:"version"`
	Concepts []ConceptSpec `yaml:"concepts"`
}

type ConceptSpec struct {
	Key        string   `yaml:"key"`
	Subject    string   `yaml:"subject"`
	Topic      string   `yaml:"topic"`
	Name       string   `yaml:"name"`
	ExamWeight int      `yaml:"exam_weight"`
	Requires   []string `yaml:"requires"`
}

// Load reads the syllabus at path, the file named by CURRICULUM_SYLLABUS_YAML,
// or the embedded default, in that order.
func Load(path string) (*Syllabus, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(SyllabusPathEnv))
	}
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = syllabusFS.ReadFile("default_syllabus.yaml")
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Syllabus, error) {
	var s Syllabus
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, "curriculum.Parse", "malformed syllabus yaml", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Syllabus) normalize() {
	for i := range s.Concepts {
		c := &s.Concepts[i]
		c.Key = strings.TrimSpace(c.Key)
		c.Subject = strings.TrimSpace(c.Subject)
		c.Topic = strings.TrimSpace(c.Topic)
		c.Name = strings.TrimSpace(c.Name)
		c.Requires = dedupeStrings(c.Requires)
	}
}

// Validate rejects malformed entries with invalid_input and any cycle or
// unknown prerequisite key with structural_integrity.
func (s *Syllabus) Validate() error {
	const op = "curriculum.Validate"
	if s == nil || len(s.Concepts) == 0 {
		return aggregates.NewError(aggregates.CodeInvalidInput, op, "syllabus has no concepts", nil)
	}
	seen := map[string]bool{}
	for _, c := range s.Concepts {
		switch {
		case c.Key == "":
			return aggregates.NewError(aggregates.CodeInvalidInput, op, "concept key is required", nil)
		case seen[c.Key]:
			return aggregates.NewError(aggregates.CodeInvalidInput, op, "duplicate concept key: "+c.Key, nil)
		case c.Subject == "" || c.Topic == "" || c.Name == "":
			return aggregates.NewError(aggregates.CodeInvalidInput, op, "concept "+c.Key+": subject, topic and name are required", nil)
		case c.ExamWeight < studyplan.MinExamWeight || c.ExamWeight > studyplan.MaxExamWeight:
			return aggregates.NewError(aggregates.CodeInvalidInput, op, fmt.Sprintf("concept %s: exam_weight %d outside 1-10", c.Key, c.ExamWeight), nil)
		}
		seen[c.Key] = true
	}

	concepts, edges := s.placeholderGraph()
	faults := studyplan.NewConceptGraph(concepts, edges).Faults()
	if len(faults) == 0 {
		return nil
	}
	keys := make(map[uuid.UUID]string, len(concepts))
	for _, e := range s.Edges() {
		keys[PlaceholderID(e[0])] = e[0]
		keys[PlaceholderID(e[1])] = e[1]
	}
	for _, c := range concepts {
		keys[c.ID] = c.Key
	}
	msgs := make([]string, 0, len(faults))
	for _, f := range faults {
		msgs = append(msgs, describeFault(f, keys))
	}
	sort.Strings(msgs)
	return aggregates.NewError(aggregates.CodeStructuralIntegrity, op, strings.Join(msgs, "; "), faults[0])
}

// Edges returns (concept key, prerequisite key) pairs in file order.
func (s *Syllabus) Edges() [][2]string {
	out := [][2]string{}
	for _, c := range s.Concepts {
		for _, r := range c.Requires {
			out = append(out, [2]string{c.Key, r})
		}
	}
	return out
}

func (s *Syllabus) placeholderGraph() ([]*types.Concept, []*types.ConceptPrerequisite) {
	concepts := make([]*types.Concept, 0, len(s.Concepts))
	edges := []*types.ConceptPrerequisite{}
	for _, c := range s.Concepts {
		concepts = append(concepts, &types.Concept{
			ID:         PlaceholderID(c.Key),
			Key:        c.Key,
			ExamWeight: c.ExamWeight,
		})
	}
	for _, e := range s.Edges() {
		edges = append(edges, &types.ConceptPrerequisite{
			ConceptID:      PlaceholderID(e[0]),
			PrerequisiteID: PlaceholderID(e[1]),
		})
	}
	return concepts, edges
}

// PlaceholderID is the deterministic id used for key-only validation.
func PlaceholderID(key string) uuid.UUID {
	return uuid.NewSHA1(keyNamespace, []byte(key))
}

func describeFault(f studyplan.IntegrityFault, keys map[uuid.UUID]string) string {
	name := func(id uuid.UUID) string {
		if k, ok := keys[id]; ok {
			return k
		}
		return id.String()
	}
	related := make([]string, 0, len(f.Related))
	for _, id := range f.Related {
		related = append(related, name(id))
	}
	switch f.Kind {
	case studyplan.FaultCycle:
		return fmt.Sprintf("%s is on a prerequisite cycle [%s]", name(f.ConceptID), strings.Join(related, ", "))
	case studyplan.FaultDanglingPrerequisite:
		return fmt.Sprintf("%s requires unknown concept(s) [%s]", name(f.ConceptID), strings.Join(related, ", "))
	default:
		return f.Error()
	}
}

func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
