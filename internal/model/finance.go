package model

import "encoding/json"

// Account situation filter values accepted by the Sponte API.
const (
	AccountAll     = -1
	AccountPending = 0
	AccountPaid    = 1
)

// Installment is one scheduled payment unit inside a receivable or payable.
type Installment struct {
	NumeroParcela  int    `json:"numeroParcela,omitempty"`
	Situacao       *int   `json:"situacao,omitempty"`
	Valor          Amount `json:"valor"`
	ValorPago      Amount `json:"valorPago,omitempty"`
	DataVencimento string `json:"dataVencimento,omitempty"`
	DataPagamento  string `json:"dataPagamento,omitempty"`
}

// Receivable is one row of the /api/v1/contasReceber listing.
type Receivable struct {
	ContaReceberID       int           `json:"contaReceberID,omitempty"`
	AlunoID              int           `json:"alunoID,omitempty"`
	PlanoContasDescricao string        `json:"planoContasDescricao,omitempty"`
	Valor                Amount        `json:"valor"`
	ValorPlano           Amount        `json:"valorPlano,omitempty"`
	Situacao             *int          `json:"situacao,omitempty"`
	DataVencimento       string        `json:"dataVencimento,omitempty"`
	Parcelas             []Installment `json:"parcelas,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var receivableKeys = fieldKeys(Receivable{})

func (r *Receivable) UnmarshalJSON(data []byte) error {
	type alias Receivable
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = Receivable(a)
	r.Extra = extraFields(data, receivableKeys)
	return nil
}

func (r Receivable) MarshalJSON() ([]byte, error) {
	type alias Receivable
	return marshalWithExtra(alias(r), r.Extra)
}

// InstallmentTotal sums the installment amounts of a receivable. Unset or
// non-numeric amounts are skipped, not counted as zero.
func (r Receivable) InstallmentTotal() float64 {
	var total float64
	for _, p := range r.Parcelas {
		if v, ok := p.Valor.Value(); ok {
			total += v
		}
	}
	return total
}

// Payable is one row of the /api/v1/contasPagar listing.
type Payable struct {
	ContaPagarID         int           `json:"contaPagarID,omitempty"`
	FuncionarioID        int           `json:"funcionarioID,omitempty"`
	EmpresaID            int           `json:"empresaID,omitempty"`
	PlanoContasDescricao string        `json:"planoContasDescricao,omitempty"`
	Valor                Amount        `json:"valor"`
	Situacao             *int          `json:"situacao,omitempty"`
	DataVencimento       string        `json:"dataVencimento,omitempty"`
	Parcelas             []Installment `json:"parcelas,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var payableKeys = fieldKeys(Payable{})

func (p *Payable) UnmarshalJSON(data []byte) error {
	type alias Payable
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Payable(a)
	p.Extra = extraFields(data, payableKeys)
	return nil
}

func (p Payable) MarshalJSON() ([]byte, error) {
	type alias Payable
	return marshalWithExtra(alias(p), p.Extra)
}

// ────────────────────────────────────────────────────────────────────────────
// Aggregation outputs
// ────────────────────────────────────────────────────────────────────────────

// FinanceDetail is the paid/pending split for one student over a period.
type FinanceDetail struct {
	AlunoID       int     `json:"alunoID"`
	Nome          string  `json:"nome"`
	ValorPago     float64 `json:"valor_pago"`
	ValorPendente float64 `json:"valor_pendente"`
}

// Total returns paid plus pending for the student.
func (d FinanceDetail) Total() float64 { return d.ValorPago + d.ValorPendente }

// ClassFinanceSummary is the roster-level financial total for a class.
type ClassFinanceSummary struct {
	TurmaID       int             `json:"turmaID"`
	PeriodoInicio string          `json:"periodo_inicio"`
	PeriodoFim    string          `json:"periodo_fim"`
	ValorTotal    float64         `json:"valor_total"`
	Alunos        []FinanceDetail `json:"alunos"`
}

// MonthlySummary is the month-level financial overview.
type MonthlySummary struct {
	Periodo           string  `json:"periodo"` // MM/YYYY
	TotalRecebido     float64 `json:"total_recebido"`
	TotalPrevisto     float64 `json:"total_previsto"`
	TotalPendente     float64 `json:"total_pendente"`
	TotalVencido      float64 `json:"total_vencido"`
	TotalVencidoMes   float64 `json:"total_vencido_mes"`
	ParcelasVencidas  int     `json:"parcelas_vencidas"`
	TaxaInadimplencia float64 `json:"taxa_inadimplencia"`
	TaxaRecebimento   float64 `json:"taxa_recebimento"`
}

// OverdueInstallment is one overdue receivable annotated with ageing data.
type OverdueInstallment struct {
	ContaReceberID       int     `json:"contaReceberID,omitempty"`
	AlunoID              int     `json:"alunoID,omitempty"`
	PlanoContasDescricao string  `json:"planoContasDescricao,omitempty"`
	Valor                float64 `json:"valor"`
	DataVencimento       string  `json:"dataVencimento"`
	DiasAtraso           int     `json:"dias_atraso"`
	JurosEstimados       float64 `json:"juros_estimados"`
	ValorAtualizado      float64 `json:"valor_atualizado"`
}

// OverdueBucket groups overdue installments by days-late range.
type OverdueBucket struct {
	Faixa           string               `json:"faixa"`
	Quantidade      int                  `json:"quantidade"`
	ValorTotal      float64              `json:"valor_total"`
	ValorAtualizado float64              `json:"valor_atualizado"`
	Parcelas        []OverdueInstallment `json:"parcelas"`
}

// OverdueReport is the full ageing report for pending receivables.
type OverdueReport struct {
	TotalParcelas   int             `json:"total_parcelas"`
	ValorTotal      float64         `json:"valor_total"`
	ValorAtualizado float64         `json:"valor_atualizado"`
	Faixas          []OverdueBucket `json:"faixas"`
}

// CashFlowRow is one period of the receivables-vs-payables cash flow report.
type CashFlowRow struct {
	Periodo  string  `json:"periodo"`
	Receitas float64 `json:"receitas"`
	Despesas float64 `json:"despesas"`
	Saldo    float64 `json:"saldo"`
}
