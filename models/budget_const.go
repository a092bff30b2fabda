package models

// BudgetStatus is the lifecycle of a budget entry, values match the
// warehouse schema the dashboards query
type BudgetStatus string

const (
	BudgetStatusPlanned  BudgetStatus = "RENCANA"
	BudgetStatusApproved BudgetStatus = "DISETUJUI"
	BudgetStatusRealized BudgetStatus = "DIREALISASI"
	BudgetStatusDone     BudgetStatus = "SELESAI"
)

var budgetStatusHumanName = map[BudgetStatus]string{
	BudgetStatusPlanned:  "Planned",
	BudgetStatusApproved: "Approved",
	BudgetStatusRealized: "In realization",
	BudgetStatusDone:     "Completed",
}

func (s BudgetStatus) ToHuman() string {
	if human, exist := budgetStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s BudgetStatus) IsValid() bool {
	_, exist := budgetStatusHumanName[s]
	return exist
}

// MunicipalityKind distinguishes regencies from cities
type MunicipalityKind string

const (
	MunicipalityRegency MunicipalityKind = "KABUPATEN"
	MunicipalityCity    MunicipalityKind = "KOTA"
)

func (k MunicipalityKind) IsValid() bool {
	return k == MunicipalityRegency || k == MunicipalityCity
}

// ExpenseCategory groups budget types by spending class
type ExpenseCategory string

const (
	ExpensePersonnel     ExpenseCategory = "BELANJA_PEGAWAI"
	ExpenseGoodsServices ExpenseCategory = "BELANJA_BARANG_JASA"
	ExpenseCapital       ExpenseCategory = "BELANJA_MODAL"
	ExpenseGrants        ExpenseCategory = "BELANJA_HIBAH"
	ExpenseSocialAid     ExpenseCategory = "BELANJA_BANTUAN_SOSIAL"
)
