package model

import "encoding/json"

// Student situation filter values accepted by the Sponte API.
const (
	StudentActive     = -1
	StudentInactive   = -2
	StudentInterested = -3
	StudentGraduated  = -4
	StudentDroppedOut = -5
)

// Student is one row of the /api/v1/alunos listing.
type Student struct {
	AlunoID     int    `json:"alunoID"`
	NomeAluno   string `json:"nomeAluno"`
	EmailPadrao string `json:"emailPadrao,omitempty"`
	CPF         string `json:"cpf,omitempty"`
	Celular     string `json:"celular,omitempty"`
	Telefone    string `json:"telefone,omitempty"`
	SituacaoID  *int   `json:"situacaoID,omitempty"`
	Situacao    string `json:"situacao,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var studentKeys = fieldKeys(Student{})

func (s *Student) UnmarshalJSON(data []byte) error {
	type alias Student
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Student(a)
	s.Extra = extraFields(data, studentKeys)
	return nil
}

func (s Student) MarshalJSON() ([]byte, error) {
	type alias Student
	return marshalWithExtra(alias(s), s.Extra)
}
