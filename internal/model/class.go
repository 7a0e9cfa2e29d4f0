package model

import "encoding/json"

// Class situation filter values accepted by the Sponte API.
const (
	ClassOpen    = 1
	ClassClosed  = 2
	ClassForming = 3
)

// Class is one row of the /api/v1/turmas listing.
type Class struct {
	TurmaID         int           `json:"turmaID"`
	NomeTurma       string        `json:"nomeTurma"`
	Modalidade      string        `json:"modalidade,omitempty"`
	NomeCurso       string        `json:"nomeCurso,omitempty"`
	NomeEstagio     string        `json:"nomeEstagio,omitempty"`
	NomeFuncionario string        `json:"nomeFuncionario,omitempty"`
	DataInicio      string        `json:"dataInicio,omitempty"`
	DataTermino     string        `json:"dataTermino,omitempty"`
	Alunos          []RosterEntry `json:"alunos,omitempty"`

	// NumeroAlunos is derived from the roster length after fetch; the
	// upstream API does not ship it.
	NumeroAlunos int `json:"numeroAlunos"`

	Extra map[string]json.RawMessage `json:"-"`
}

var classKeys = fieldKeys(Class{})

func (c *Class) UnmarshalJSON(data []byte) error {
	type alias Class
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Class(a)
	c.NumeroAlunos = len(c.Alunos)
	c.Extra = extraFields(data, classKeys)
	return nil
}

func (c Class) MarshalJSON() ([]byte, error) {
	type alias Class
	return marshalWithExtra(alias(c), c.Extra)
}

// ClassFacets are the distinct filter values the dashboard sidebar offers,
// collected from the open-class listing.
type ClassFacets struct {
	Modalidades []string `json:"modalidades"`
	Cursos      []string `json:"cursos"`
	Estagios    []string `json:"estagios"`
	Professores []string `json:"professores"`
	TotalTurmas int      `json:"total_turmas"`
	TotalAlunos int      `json:"total_alunos"`
}
