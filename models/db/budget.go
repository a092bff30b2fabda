package dbmodels

import (
	"time"

	"budget-portal-backend/models"
)

// Table and column names follow the warehouse schema the Superset datasets
// are built on, renaming them would break every published dashboard.

type Province struct {
	BaseModel
	Code string `gorm:"column:kode_provinsi;uniqueIndex" json:"code"`
	Name string `gorm:"column:nama_provinsi" json:"name"`
}

func (Province) TableName() string {
	return "provinsi"
}

type Municipality struct {
	BaseModel
	ProvinceID string                  `gorm:"column:provinsi_id;index" json:"province_id"`
	Province   *Province               `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	Code       string                  `gorm:"column:kode_kabkota;uniqueIndex" json:"code"`
	Name       string                  `gorm:"column:nama_kabkota" json:"name"`
	Kind       models.MunicipalityKind `gorm:"column:jenis" json:"kind"`
}

func (Municipality) TableName() string {
	return "kabupaten_kota"
}

type BudgetProgram struct {
	BaseModel
	Code        string `gorm:"column:kode_program;uniqueIndex" json:"code"`
	Name        string `gorm:"column:nama_program" json:"name"`
	Description string `gorm:"column:deskripsi" json:"description"`
}

func (BudgetProgram) TableName() string {
	return "program_kegiatan"
}

type BudgetType struct {
	BaseModel
	Code     string                 `gorm:"column:kode_jenis;uniqueIndex" json:"code"`
	Name     string                 `gorm:"column:nama_jenis" json:"name"`
	Category models.ExpenseCategory `gorm:"column:kategori" json:"category"`
}

func (BudgetType) TableName() string {
	return "jenis_anggaran"
}

type BudgetEntry struct {
	BaseModel
	MunicipalityID string         `gorm:"column:kabupaten_kota_id;index" json:"municipality_id"`
	Municipality   *Municipality  `gorm:"foreignKey:MunicipalityID" json:"municipality,omitempty"`
	ProgramID      string         `gorm:"column:program_id;index" json:"program_id"`
	Program        *BudgetProgram `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	BudgetTypeID   string         `gorm:"column:jenis_anggaran_id;index" json:"budget_type_id"`
	BudgetType     *BudgetType    `gorm:"foreignKey:BudgetTypeID" json:"budget_type,omitempty"`

	Year      int     `gorm:"column:tahun_anggaran;index" json:"year"`
	Allocated float64 `gorm:"column:pagu_anggaran;type:decimal(15,2)" json:"allocated"`
	Realized  float64 `gorm:"column:realisasi_anggaran;type:decimal(15,2)" json:"realized"`
	Remaining float64 `gorm:"column:sisa_anggaran;type:decimal(15,2)" json:"remaining"`
	// derived on save, realized share of the allocation in percent
	RealizedPct float64 `gorm:"column:persentase_realisasi;type:decimal(5,2)" json:"realized_pct"`

	Status    models.BudgetStatus `gorm:"column:status;default:RENCANA" json:"status"`
	StartDate time.Time           `gorm:"column:tanggal_mulai" json:"start_date"`
	EndDate   time.Time           `gorm:"column:tanggal_selesai" json:"end_date"`
	Note      string              `gorm:"column:keterangan" json:"note"`
}

func (BudgetEntry) TableName() string {
	return "anggaran_daerah"
}

// Recalc refreshes the derived remainder and realization percentage
func (e *BudgetEntry) Recalc() {
	e.Remaining = e.Allocated - e.Realized
	if e.Allocated > 0 {
		e.RealizedPct = e.Realized / e.Allocated * 100
	} else {
		e.RealizedPct = 0
	}
}

type MonthlyRealization struct {
	BaseModel
	BudgetEntryID string       `gorm:"column:anggaran_id;index:idx_realisasi_unique,unique" json:"budget_entry_id"`
	BudgetEntry   *BudgetEntry `gorm:"foreignKey:BudgetEntryID" json:"budget_entry,omitempty"`
	Month         int          `gorm:"column:bulan;index:idx_realisasi_unique,unique" json:"month"`
	Year          int          `gorm:"column:tahun;index:idx_realisasi_unique,unique" json:"year"`
	Amount        float64      `gorm:"column:jumlah_realisasi;type:decimal(15,2)" json:"amount"`
}

func (MonthlyRealization) TableName() string {
	return "realisasi_bulanan"
}
