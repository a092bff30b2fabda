package budgetstore

import (
	dbmodels "budget-portal-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.BudgetEntry) (id string, err error)
	Update(id string, data map[string]interface{}) error
	Delete(id string) error
	GetByID(id string) (*dbmodels.BudgetEntry, error)
	List(filter Filter) (list []dbmodels.BudgetEntry, rowCount int64, err error)
	Summary() (summary SummaryData, err error)

	ListProvinces() ([]dbmodels.Province, error)
	ListMunicipalities(provinceID string) ([]dbmodels.Municipality, error)
	ListPrograms() ([]dbmodels.BudgetProgram, error)
	ListBudgetTypes() ([]dbmodels.BudgetType, error)
}

type Filter struct {
	Year           int
	ProvinceID     string
	MunicipalityID string
	Status         string
	Page           int
	Limit          int
}

type SummaryData struct {
	TotalEntries        int64
	TotalProvinces      int64
	TotalMunicipalities int64
	TotalAllocated      float64
	TotalRealized       float64
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.BudgetEntry) (id string, err error) {
	rec.Recalc()
	tx := i.db.Create(&rec)
	if tx.Error != nil {
		return "", errors.Wrap(tx.Error, "failed to create budget entry")
	}
	return rec.ID, nil
}

func (i impl) Update(id string, data map[string]interface{}) error {
	tx := i.db.Model(&dbmodels.BudgetEntry{}).Where("id = ?", id).Updates(data)
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to update budget entry")
	}
	if tx.RowsAffected == 0 {
		return errors.New("budget entry not found")
	}
	return nil
}

func (i impl) Delete(id string) error {
	tx := i.db.Where("id = ?", id).Delete(&dbmodels.BudgetEntry{})
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to delete budget entry")
	}
	if tx.RowsAffected == 0 {
		return errors.New("budget entry not found")
	}
	return nil
}

func (i impl) GetByID(id string) (*dbmodels.BudgetEntry, error) {
	rec := dbmodels.BudgetEntry{}
	err := i.withRefs().
		Where("anggaran_daerah.id = ?", id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get budget entry")
	}
	return &rec, nil
}

func (i impl) List(filter Filter) (list []dbmodels.BudgetEntry, rowCount int64, err error) {
	tx := i.withRefs()
	if filter.Year != 0 {
		tx = tx.Where("tahun_anggaran = ?", filter.Year)
	}
	if filter.MunicipalityID != "" {
		tx = tx.Where("kabupaten_kota_id = ?", filter.MunicipalityID)
	}
	if filter.ProvinceID != "" {
		tx = tx.Where("kabupaten_kota_id IN (?)",
			i.db.Model(&dbmodels.Municipality{}).Select("id").Where("provinsi_id = ?", filter.ProvinceID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	err = tx.Count(&rowCount).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to count budget entries")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	err = tx.
		Order("tahun_anggaran desc, pagu_anggaran desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list budget entries")
	}
	return list, rowCount, nil
}

func (i impl) Summary() (summary SummaryData, err error) {
	if err = i.db.Model(&dbmodels.BudgetEntry{}).Count(&summary.TotalEntries).Error; err != nil {
		return summary, errors.Wrap(err, "failed to count budget entries")
	}
	if err = i.db.Model(&dbmodels.Province{}).Count(&summary.TotalProvinces).Error; err != nil {
		return summary, errors.Wrap(err, "failed to count provinces")
	}
	if err = i.db.Model(&dbmodels.Municipality{}).Count(&summary.TotalMunicipalities).Error; err != nil {
		return summary, errors.Wrap(err, "failed to count municipalities")
	}
	totals := struct {
		Allocated float64
		Realized  float64
	}{}
	err = i.db.Model(&dbmodels.BudgetEntry{}).
		Select("COALESCE(SUM(pagu_anggaran),0) as allocated, COALESCE(SUM(realisasi_anggaran),0) as realized").
		Scan(&totals).Error
	if err != nil {
		return summary, errors.Wrap(err, "failed to sum budget amounts")
	}
	summary.TotalAllocated = totals.Allocated
	summary.TotalRealized = totals.Realized
	return summary, nil
}

func (i impl) ListProvinces() ([]dbmodels.Province, error) {
	var result []dbmodels.Province
	err := i.db.Order("kode_provinsi").Find(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list provinces")
	}
	return result, nil
}

func (i impl) ListMunicipalities(provinceID string) ([]dbmodels.Municipality, error) {
	var result []dbmodels.Municipality
	tx := i.db.Preload("Province").Order("kode_kabkota")
	if provinceID != "" {
		tx = tx.Where("provinsi_id = ?", provinceID)
	}
	err := tx.Find(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list municipalities")
	}
	return result, nil
}

func (i impl) ListPrograms() ([]dbmodels.BudgetProgram, error) {
	var result []dbmodels.BudgetProgram
	err := i.db.Order("kode_program").Find(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list budget programs")
	}
	return result, nil
}

func (i impl) ListBudgetTypes() ([]dbmodels.BudgetType, error) {
	var result []dbmodels.BudgetType
	err := i.db.Order("kode_jenis").Find(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list budget types")
	}
	return result, nil
}

func (i impl) withRefs() *gorm.DB {
	return i.db.Model(&dbmodels.BudgetEntry{}).
		Preload("Municipality").
		Preload("Municipality.Province").
		Preload("Program").
		Preload("BudgetType")
}
