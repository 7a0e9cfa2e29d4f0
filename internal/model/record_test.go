package model

import (
	"encoding/json"
	"testing"
)

func TestAmountDecodeForms(t *testing.T) {
	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{`100.5`, 100.5, true},
		{`0`, 0, true},
		{`"250.75"`, 250.75, true},
		{`" 42 "`, 42, true},
		{`""`, 0, false},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
	}
	for _, c := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(c.in), &a); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", c.in, err)
			continue
		}
		v, ok := a.Value()
		if ok != c.valid || v != c.want {
			t.Errorf("Unmarshal(%s) = (%v, %v), want (%v, %v)", c.in, v, ok, c.want, c.valid)
		}
	}
}

func TestAmountNeverFailsEnclosingRecord(t *testing.T) {
	var r Receivable
	data := []byte(`{"contaReceberID":9,"valor":{"moeda":"BRL"}}`)
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("record decode failed: %v", err)
	}
	if r.ContaReceberID != 9 {
		t.Errorf("contaReceberID = %d, want 9", r.ContaReceberID)
	}
	if _, ok := r.Valor.Value(); ok {
		t.Error("object-valued valor should decode as unset")
	}
}

func TestAmountOr(t *testing.T) {
	if got := NewAmount(10).Or(99); got != 10 {
		t.Errorf("Or = %v, want 10", got)
	}
	var unset Amount
	if got := unset.Or(99); got != 99 {
		t.Errorf("Or = %v, want fallback 99", got)
	}
}

func TestRosterEntryDecodeBothForms(t *testing.T) {
	var bare RosterEntry
	if err := json.Unmarshal([]byte(`123`), &bare); err != nil {
		t.Fatalf("bare id: %v", err)
	}
	if bare.AlunoID != 123 {
		t.Errorf("AlunoID = %d, want 123", bare.AlunoID)
	}

	var obj RosterEntry
	if err := json.Unmarshal([]byte(`{"alunoID":123,"nomeAluno":"Ana"}`), &obj); err != nil {
		t.Fatalf("object form: %v", err)
	}
	if obj.AlunoID != 123 || obj.NomeAluno != "Ana" {
		t.Errorf("got %+v", obj)
	}
}

func TestUniqueStudentIDs(t *testing.T) {
	roster := []RosterEntry{
		{AlunoID: 3}, {AlunoID: 1}, {AlunoID: 3}, {AlunoID: 0}, {AlunoID: -7}, {AlunoID: 2}, {AlunoID: 1},
	}
	got := UniqueStudentIDs(roster)
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestReceivableInstallmentTotalSkipsBadAmounts(t *testing.T) {
	var r Receivable
	data := []byte(`{
		"contaReceberID": 1,
		"parcelas": [
			{"valor": "100.0"},
			{"valor": "abc"},
			{"valor": "50.5"}
		]
	}`)
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := r.InstallmentTotal(); got != 150.5 {
		t.Errorf("InstallmentTotal = %v, want 150.5", got)
	}
}

func TestStudentExtraBagRoundTrip(t *testing.T) {
	data := []byte(`{"alunoID":1,"nomeAluno":"Ana","responsavelFinanceiro":"Paulo","bairro":"Centro"}`)

	var s Student
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Extra) != 2 {
		t.Fatalf("extra fields = %d, want 2: %v", len(s.Extra), s.Extra)
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var round map[string]json.RawMessage
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("decode round trip: %v", err)
	}
	if string(round["responsavelFinanceiro"]) != `"Paulo"` {
		t.Errorf("responsavelFinanceiro lost: %s", out)
	}
	if string(round["nomeAluno"]) != `"Ana"` {
		t.Errorf("typed field lost: %s", out)
	}
}

func TestClassRosterCountDerived(t *testing.T) {
	data := []byte(`{"turmaID":5,"nomeTurma":"Ingles A1","alunos":[10,11,{"alunoID":12}]}`)

	var c Class
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.NumeroAlunos != 3 {
		t.Errorf("NumeroAlunos = %d, want 3", c.NumeroAlunos)
	}
	if c.Alunos[2].AlunoID != 12 {
		t.Errorf("mixed roster forms: %+v", c.Alunos)
	}
}
