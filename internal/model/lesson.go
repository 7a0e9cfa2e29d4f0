package model

import "encoding/json"

// Lesson situation filter values accepted by the Sponte API.
const (
	LessonPending   = 0
	LessonConfirmed = 1
)

// Lesson is one row of the /api/v1/aulas listing.
type Lesson struct {
	AulaID        int           `json:"aulaID,omitempty"`
	TurmaID       int           `json:"turmaID,omitempty"`
	DataAula      string        `json:"dataAula,omitempty"`
	Situacao      string        `json:"situacao,omitempty"`
	NomeProfessor string        `json:"nomeProfessor,omitempty"`
	Alunos        []RosterEntry `json:"alunos,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var lessonKeys = fieldKeys(Lesson{})

func (l *Lesson) UnmarshalJSON(data []byte) error {
	type alias Lesson
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = Lesson(a)
	l.Extra = extraFields(data, lessonKeys)
	return nil
}

func (l Lesson) MarshalJSON() ([]byte, error) {
	type alias Lesson
	return marshalWithExtra(alias(l), l.Extra)
}
