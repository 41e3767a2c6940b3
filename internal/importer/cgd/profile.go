package cgd

type amountMode int

const (
	// One signed column, e.g. "Montante" = "-10,00".
	amountSigned amountMode = iota
	// Unsigned "Débito" and "Crédito" columns.
	amountDebitCredit
)

// layout is the column set of one CGD export flavour.
type layout struct {
	name   string
	date   string
	desc   string
	mode   amountMode
	amount string
	debit  string
	credit string
}

func (l layout) columns() []string {
	if l.mode == amountDebitCredit {
		return []string{l.date, l.desc, l.debit, l.credit}
	}

	return []string{l.date, l.desc, l.amount}
}

// Tried in order; the card layout shares "Descrição" with the others so it
// goes first.
var layouts = []layout{
	{
		name:   "cartão",
		date:   "Data",
		desc:   "Descrição",
		mode:   amountDebitCredit,
		debit:  "Débito",
		credit: "Crédito",
	},
	{
		name:   "extrato",
		date:   "Data mov.",
		desc:   "Descrição",
		mode:   amountSigned,
		amount: "Movimento",
	},
	{
		name:   "conta",
		date:   "Data mov.",
		desc:   "Descrição",
		mode:   amountSigned,
		amount: "Montante",
	},
}
