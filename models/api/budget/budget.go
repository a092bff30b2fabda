package budgetapimodels

import (
	"time"

	"budget-portal-backend/models"
	apimodels "budget-portal-backend/models/api"
	dbmodels "budget-portal-backend/models/db"

	"github.com/pkg/errors"
)

type ProvinceView struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func ProvinceConvert(rec dbmodels.Province) ProvinceView {
	return ProvinceView{
		ID:   rec.ID,
		Code: rec.Code,
		Name: rec.Name,
	}
}

type MunicipalityView struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Province string `json:"province,omitempty"`
}

func MunicipalityConvert(rec dbmodels.Municipality) MunicipalityView {
	view := MunicipalityView{
		ID:   rec.ID,
		Code: rec.Code,
		Name: rec.Name,
		Kind: string(rec.Kind),
	}
	if rec.Province != nil {
		view.Province = rec.Province.Name
	}
	return view
}

type BudgetEntryData struct {
	MunicipalityID string  `json:"municipality_id"`
	ProgramID      string  `json:"program_id"`
	BudgetTypeID   string  `json:"budget_type_id"`
	Year           int     `json:"year"`
	Allocated      float64 `json:"allocated"`
	Realized       float64 `json:"realized"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date"` // 2006-01-02
	EndDate        string  `json:"end_date"`   // 2006-01-02
	Note           string  `json:"note"`
}

func (r BudgetEntryData) Validate() error {
	if r.MunicipalityID == "" {
		return errors.New("municipality is not set")
	}
	if r.ProgramID == "" {
		return errors.New("program is not set")
	}
	if r.BudgetTypeID == "" {
		return errors.New("budget type is not set")
	}
	if r.Year < 2000 || r.Year > 2100 {
		return errors.New("budget year is out of range")
	}
	if r.Allocated < 0 || r.Realized < 0 {
		return errors.New("amounts must not be negative")
	}
	if r.Status != "" && !models.BudgetStatus(r.Status).IsValid() {
		return errors.Errorf("unknown budget status: %v", r.Status)
	}
	if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
		return errors.New("invalid start date, expected YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", r.EndDate); err != nil {
		return errors.New("invalid end date, expected YYYY-MM-DD")
	}
	return nil
}

func (r BudgetEntryData) ToRecord() dbmodels.BudgetEntry {
	startDate, _ := time.Parse("2006-01-02", r.StartDate)
	endDate, _ := time.Parse("2006-01-02", r.EndDate)
	status := models.BudgetStatus(r.Status)
	if r.Status == "" {
		status = models.BudgetStatusPlanned
	}
	rec := dbmodels.BudgetEntry{
		MunicipalityID: r.MunicipalityID,
		ProgramID:      r.ProgramID,
		BudgetTypeID:   r.BudgetTypeID,
		Year:           r.Year,
		Allocated:      r.Allocated,
		Realized:       r.Realized,
		Status:         status,
		StartDate:      startDate,
		EndDate:        endDate,
		Note:           r.Note,
	}
	rec.Recalc()
	return rec
}

type BudgetEntryView struct {
	ID           string  `json:"id"`
	Municipality string  `json:"municipality"`
	Province     string  `json:"province"`
	Program      string  `json:"program"`
	BudgetType   string  `json:"budget_type"`
	Year         int     `json:"year"`
	Allocated    float64 `json:"allocated"`
	Realized     float64 `json:"realized"`
	Remaining    float64 `json:"remaining"`
	RealizedPct  float64 `json:"realized_pct"`
	Status       string  `json:"status"`
	StatusName   string  `json:"status_name"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Note         string  `json:"note,omitempty"`
}

func BudgetEntryConvert(rec dbmodels.BudgetEntry) BudgetEntryView {
	view := BudgetEntryView{
		ID:          rec.ID,
		Year:        rec.Year,
		Allocated:   rec.Allocated,
		Realized:    rec.Realized,
		Remaining:   rec.Remaining,
		RealizedPct: rec.RealizedPct,
		Status:      string(rec.Status),
		StatusName:  rec.Status.ToHuman(),
		StartDate:   rec.StartDate.Format("2006-01-02"),
		EndDate:     rec.EndDate.Format("2006-01-02"),
		Note:        rec.Note,
	}
	if rec.Municipality != nil {
		view.Municipality = rec.Municipality.Name
		if rec.Municipality.Province != nil {
			view.Province = rec.Municipality.Province.Name
		}
	}
	if rec.Program != nil {
		view.Program = rec.Program.Name
	}
	if rec.BudgetType != nil {
		view.BudgetType = rec.BudgetType.Name
	}
	return view
}

type BudgetEntryFilter struct {
	apimodels.Pagination
	Year           int    `json:"year"`
	ProvinceID     string `json:"province_id"`
	MunicipalityID string `json:"municipality_id"`
	Status         string `json:"status"`
}

// PortalSummary feeds the portal landing page counters
type PortalSummary struct {
	TotalEntries        int64   `json:"total_entries"`
	TotalProvinces      int64   `json:"total_provinces"`
	TotalMunicipalities int64   `json:"total_municipalities"`
	TotalAllocated      float64 `json:"total_allocated"`
	TotalRealized       float64 `json:"total_realized"`
}
