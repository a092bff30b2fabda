package budgethandler

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"budget-portal-backend/db"
	budgetstore "budget-portal-backend/lib/budget/store"
	pdfexport "budget-portal-backend/lib/export/pdf"
	xlsexport "budget-portal-backend/lib/export/xls"
	filestorage "budget-portal-backend/lib/file-storage"
	budgetapimodels "budget-portal-backend/models/api/budget"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	CreateEntry(data budgetapimodels.BudgetEntryData) (id string, err error)
	UpdateEntry(id string, data budgetapimodels.BudgetEntryData) error
	DeleteEntry(id string) error
	GetEntry(id string) (budgetapimodels.BudgetEntryView, error)
	ListEntries(filter budgetapimodels.BudgetEntryFilter) (list []budgetapimodels.BudgetEntryView, rowCount int64, err error)
	Summary() (budgetapimodels.PortalSummary, error)

	ListProvinces() ([]budgetapimodels.ProvinceView, error)
	ListMunicipalities(provinceID string) ([]budgetapimodels.MunicipalityView, error)

	ExportXLSX(ctx context.Context, filter budgetapimodels.BudgetEntryFilter) (*bytes.Buffer, error)
	ExportPDF(ctx context.Context, filter budgetapimodels.BudgetEntryFilter) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		store:   budgetstore.NewInstance(db.DB),
		storage: filestorage.Instance,
	}
}

type impl struct {
	store   budgetstore.Provider
	storage filestorage.Provider
}

func (i impl) CreateEntry(data budgetapimodels.BudgetEntryData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", err
	}
	return i.store.Create(data.ToRecord())
}

func (i impl) UpdateEntry(id string, data budgetapimodels.BudgetEntryData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	rec := data.ToRecord()
	return i.store.Update(id, map[string]interface{}{
		"kabupaten_kota_id":    rec.MunicipalityID,
		"program_id":           rec.ProgramID,
		"jenis_anggaran_id":    rec.BudgetTypeID,
		"tahun_anggaran":       rec.Year,
		"pagu_anggaran":        rec.Allocated,
		"realisasi_anggaran":   rec.Realized,
		"sisa_anggaran":        rec.Remaining,
		"persentase_realisasi": rec.RealizedPct,
		"status":               rec.Status,
		"tanggal_mulai":        rec.StartDate,
		"tanggal_selesai":      rec.EndDate,
		"keterangan":           rec.Note,
	})
}

func (i impl) DeleteEntry(id string) error {
	return i.store.Delete(id)
}

func (i impl) GetEntry(id string) (budgetapimodels.BudgetEntryView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return budgetapimodels.BudgetEntryView{}, err
	}
	if rec == nil {
		return budgetapimodels.BudgetEntryView{}, errors.New("budget entry not found")
	}
	return budgetapimodels.BudgetEntryConvert(*rec), nil
}

func (i impl) ListEntries(filter budgetapimodels.BudgetEntryFilter) (list []budgetapimodels.BudgetEntryView, rowCount int64, err error) {
	recList, rowCount, err := i.store.List(storeFilter(filter))
	if err != nil {
		return nil, 0, err
	}
	result := make([]budgetapimodels.BudgetEntryView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, budgetapimodels.BudgetEntryConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Summary() (budgetapimodels.PortalSummary, error) {
	data, err := i.store.Summary()
	if err != nil {
		return budgetapimodels.PortalSummary{}, err
	}
	return budgetapimodels.PortalSummary{
		TotalEntries:        data.TotalEntries,
		TotalProvinces:      data.TotalProvinces,
		TotalMunicipalities: data.TotalMunicipalities,
		TotalAllocated:      data.TotalAllocated,
		TotalRealized:       data.TotalRealized,
	}, nil
}

func (i impl) ListProvinces() ([]budgetapimodels.ProvinceView, error) {
	recList, err := i.store.ListProvinces()
	if err != nil {
		return nil, err
	}
	result := make([]budgetapimodels.ProvinceView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, budgetapimodels.ProvinceConvert(rec))
	}
	return result, nil
}

func (i impl) ListMunicipalities(provinceID string) ([]budgetapimodels.MunicipalityView, error) {
	recList, err := i.store.ListMunicipalities(provinceID)
	if err != nil {
		return nil, err
	}
	result := make([]budgetapimodels.MunicipalityView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, budgetapimodels.MunicipalityConvert(rec))
	}
	return result, nil
}

func (i impl) ExportXLSX(ctx context.Context, filter budgetapimodels.BudgetEntryFilter) (*bytes.Buffer, error) {
	list, err := i.exportRows(filter)
	if err != nil {
		return nil, err
	}
	buf, err := xlsexport.Instance.ExportBudgetEntries(list)
	if err != nil {
		return nil, err
	}
	i.archiveExport(ctx, "xlsx", buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return buf, nil
}

func (i impl) ExportPDF(ctx context.Context, filter budgetapimodels.BudgetEntryFilter) ([]byte, error) {
	list, err := i.exportRows(filter)
	if err != nil {
		return nil, err
	}
	summary, err := i.Summary()
	if err != nil {
		return nil, err
	}
	data, err := pdfexport.GenerateBudgetReport(summary, list)
	if err != nil {
		return nil, err
	}
	i.archiveExport(ctx, "pdf", data, "application/pdf")
	return data, nil
}

func (i impl) exportRows(filter budgetapimodels.BudgetEntryFilter) ([]budgetapimodels.BudgetEntryView, error) {
	sFilter := storeFilter(filter)
	sFilter.Page = 1
	sFilter.Limit = exportRowLimit
	recList, _, err := i.store.List(sFilter)
	if err != nil {
		return nil, err
	}
	result := make([]budgetapimodels.BudgetEntryView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, budgetapimodels.BudgetEntryConvert(rec))
	}
	return result, nil
}

// archiveExport keeps a copy of each generated report in object storage,
// best effort
func (i impl) archiveExport(ctx context.Context, ext string, data []byte, contentType string) {
	if i.storage == nil {
		return
	}
	name := fmt.Sprintf("budget-report-%v.%v", time.Now().Format("20060102-150405"), ext)
	url, err := i.storage.UploadExport(ctx, name, data, contentType)
	if err != nil {
		log.WithError(err).Warn("failed to archive export")
		return
	}
	log.WithField("url", url).Info("export archived")
}

const exportRowLimit = 10000

func storeFilter(filter budgetapimodels.BudgetEntryFilter) budgetstore.Filter {
	page, limit := filter.GetPage()
	return budgetstore.Filter{
		Year:           filter.Year,
		ProvinceID:     filter.ProvinceID,
		MunicipalityID: filter.MunicipalityID,
		Status:         filter.Status,
		Page:           page,
		Limit:          limit,
	}
}
