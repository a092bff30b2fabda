package db

import (
	"math/rand"
	"time"

	budgetstore "budget-portal-backend/lib/budget/store"
	authhelpers "budget-portal-backend/lib/utils/auth-helpers"
	"budget-portal-backend/models"
	dbmodels "budget-portal-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// InitPreload seeds the reference dictionaries and, when the warehouse is
// empty, a demo budget dataset so the dashboards have data to show
func InitPreload() {
	fillProvinces()
	fillPrograms()
	fillBudgetTypes()
	fillBudgetEntries()
	fillDefaultAdmin()
}

type provinceSeed struct {
	code string
	name string
}

type municipalitySeed struct {
	code         string
	name         string
	kind         models.MunicipalityKind
	provinceCode string
}

var provinceSeeds = []provinceSeed{
	{"31", "DKI Jakarta"},
	{"32", "Jawa Barat"},
	{"33", "Jawa Tengah"},
	{"34", "DI Yogyakarta"},
	{"35", "Jawa Timur"},
	{"51", "Bali"},
	{"73", "Sulawesi Selatan"},
}

var municipalitySeeds = []municipalitySeed{
	{"3101", "Jakarta Pusat", models.MunicipalityCity, "31"},
	{"3102", "Jakarta Utara", models.MunicipalityCity, "31"},
	{"3103", "Jakarta Barat", models.MunicipalityCity, "31"},
	{"3201", "Bogor", models.MunicipalityRegency, "32"},
	{"3202", "Sukabumi", models.MunicipalityRegency, "32"},
	{"3273", "Bandung", models.MunicipalityCity, "32"},
	{"3301", "Cilacap", models.MunicipalityRegency, "33"},
	{"3302", "Banyumas", models.MunicipalityRegency, "33"},
	{"3371", "Semarang", models.MunicipalityCity, "33"},
	{"3401", "Kulon Progo", models.MunicipalityRegency, "34"},
	{"3471", "Yogyakarta", models.MunicipalityCity, "34"},
	{"3501", "Pacitan", models.MunicipalityRegency, "35"},
	{"3578", "Surabaya", models.MunicipalityCity, "35"},
	{"5101", "Jembrana", models.MunicipalityRegency, "51"},
	{"5171", "Denpasar", models.MunicipalityCity, "51"},
	{"7301", "Kepulauan Selayar", models.MunicipalityRegency, "73"},
	{"7371", "Makassar", models.MunicipalityCity, "73"},
}

var programSeeds = []dbmodels.BudgetProgram{
	{Code: "1.01.01", Name: "Program Pelayanan Administrasi Perkantoran", Description: "Office administration services"},
	{Code: "1.02.01", Name: "Program Peningkatan Sarana dan Prasarana Aparatur", Description: "Government facilities improvement"},
	{Code: "2.02.01", Name: "Program Wajib Belajar Pendidikan Dasar 9 Tahun", Description: "Nine-year basic education"},
	{Code: "2.03.01", Name: "Program Pendidikan Menengah", Description: "Secondary education"},
	{Code: "3.02.01", Name: "Program Upaya Kesehatan Masyarakat", Description: "Community health services"},
	{Code: "3.03.01", Name: "Program Peningkatan Pelayanan Kesehatan", Description: "Hospital and clinic services"},
	{Code: "4.01.01", Name: "Program Pembangunan Jalan dan Jembatan", Description: "Road and bridge construction"},
	{Code: "4.02.01", Name: "Program Rehabilitasi dan Pemeliharaan Jalan", Description: "Road maintenance"},
	{Code: "5.01.01", Name: "Program Pemberdayaan Masyarakat dan Desa", Description: "Community and village development"},
	{Code: "5.02.01", Name: "Program Pengembangan Ekonomi Lokal", Description: "Local economy development"},
}

var budgetTypeSeeds = []dbmodels.BudgetType{
	{Code: "5.1.1", Name: "Belanja Gaji dan Tunjangan", Category: models.ExpensePersonnel},
	{Code: "5.2.1", Name: "Belanja Bahan Pakai Habis", Category: models.ExpenseGoodsServices},
	{Code: "5.2.2", Name: "Belanja Jasa", Category: models.ExpenseGoodsServices},
	{Code: "5.3.2", Name: "Belanja Peralatan dan Mesin", Category: models.ExpenseCapital},
	{Code: "5.3.3", Name: "Belanja Gedung dan Bangunan", Category: models.ExpenseCapital},
	{Code: "5.4.1", Name: "Belanja Hibah kepada Pemerintah", Category: models.ExpenseGrants},
	{Code: "5.5.1", Name: "Belanja Bantuan Sosial", Category: models.ExpenseSocialAid},
}

func fillProvinces() {
	var count int64
	if err := DB.Model(&dbmodels.Province{}).Count(&count).Error; err != nil {
		log.WithError(err).Error("failed to check provinces")
		return
	}
	if count > 0 {
		return
	}
	log.Info("seeding provinces and municipalities")
	provinceIDs := map[string]string{}
	for _, seed := range provinceSeeds {
		rec := dbmodels.Province{Code: seed.code, Name: seed.name}
		if err := DB.Create(&rec).Error; err != nil {
			log.WithError(err).WithField("code", seed.code).Error("failed to seed province")
			return
		}
		provinceIDs[seed.code] = rec.ID
	}
	for _, seed := range municipalitySeeds {
		rec := dbmodels.Municipality{
			ProvinceID: provinceIDs[seed.provinceCode],
			Code:       seed.code,
			Name:       seed.name,
			Kind:       seed.kind,
		}
		if err := DB.Create(&rec).Error; err != nil {
			log.WithError(err).WithField("code", seed.code).Error("failed to seed municipality")
			return
		}
	}
}

func fillPrograms() {
	var count int64
	if err := DB.Model(&dbmodels.BudgetProgram{}).Count(&count).Error; err != nil {
		log.WithError(err).Error("failed to check programs")
		return
	}
	if count > 0 {
		return
	}
	log.Info("seeding budget programs")
	for k := range programSeeds {
		if err := DB.Create(&programSeeds[k]).Error; err != nil {
			log.WithError(err).WithField("code", programSeeds[k].Code).Error("failed to seed program")
			return
		}
	}
}

func fillBudgetTypes() {
	var count int64
	if err := DB.Model(&dbmodels.BudgetType{}).Count(&count).Error; err != nil {
		log.WithError(err).Error("failed to check budget types")
		return
	}
	if count > 0 {
		return
	}
	log.Info("seeding budget types")
	for k := range budgetTypeSeeds {
		if err := DB.Create(&budgetTypeSeeds[k]).Error; err != nil {
			log.WithError(err).WithField("code", budgetTypeSeeds[k].Code).Error("failed to seed budget type")
			return
		}
	}
}

// fillBudgetEntries generates a demo dataset, only when the warehouse is
// empty so real data is never touched
func fillBudgetEntries() {
	var count int64
	if err := DB.Model(&dbmodels.BudgetEntry{}).Count(&count).Error; err != nil {
		log.WithError(err).Error("failed to check budget entries")
		return
	}
	if count > 0 {
		return
	}
	store := budgetstore.NewInstance(DB)
	municipalities, err := store.ListMunicipalities("")
	if err != nil {
		log.WithError(err).Error("failed to list municipalities for seeding")
		return
	}
	programs, err := store.ListPrograms()
	if err != nil {
		log.WithError(err).Error("failed to list programs for seeding")
		return
	}
	types, err := store.ListBudgetTypes()
	if err != nil {
		log.WithError(err).Error("failed to list budget types for seeding")
		return
	}
	if len(municipalities) == 0 || len(programs) == 0 || len(types) == 0 {
		return
	}
	log.Info("seeding demo budget entries")
	rnd := rand.New(rand.NewSource(42))
	statuses := []models.BudgetStatus{
		models.BudgetStatusPlanned,
		models.BudgetStatusApproved,
		models.BudgetStatusRealized,
		models.BudgetStatusDone,
	}
	seeded := 0
	for _, municipality := range municipalities {
		for _, program := range programs {
			// not every municipality runs every program
			if rnd.Float64() < 0.4 {
				continue
			}
			year := 2023 + rnd.Intn(3)
			allocated := float64(500_000_000 + rnd.Intn(10_000_000_000))
			realized := allocated * rnd.Float64()
			rec := dbmodels.BudgetEntry{
				MunicipalityID: municipality.ID,
				ProgramID:      program.ID,
				BudgetTypeID:   types[rnd.Intn(len(types))].ID,
				Year:           year,
				Allocated:      allocated,
				Realized:       realized,
				Status:         statuses[rnd.Intn(len(statuses))],
				StartDate:      time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:        time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
			}
			id, err := store.Create(rec)
			if err != nil {
				log.WithError(err).Error("failed to seed budget entry")
				return
			}
			seedMonthlyRealizations(rnd, id, year, realized)
			seeded++
		}
	}
	log.WithField("count", seeded).Info("demo budget entries seeded")
}

func seedMonthlyRealizations(rnd *rand.Rand, entryID string, year int, realized float64) {
	months := 1 + rnd.Intn(12)
	perMonth := realized / float64(months)
	for month := 1; month <= months; month++ {
		rec := dbmodels.MonthlyRealization{
			BudgetEntryID: entryID,
			Month:         month,
			Year:          year,
			Amount:        perMonth,
		}
		if err := DB.Create(&rec).Error; err != nil {
			log.WithError(err).Error("failed to seed monthly realization")
			return
		}
	}
}

// fillDefaultAdmin bootstraps the first admin account, the password must be
// changed right after the first login
func fillDefaultAdmin() {
	var count int64
	if err := DB.Model(&dbmodels.AdminUser{}).Count(&count).Error; err != nil {
		log.WithError(err).Error("failed to check admin users")
		return
	}
	if count > 0 {
		return
	}
	rec := dbmodels.AdminUser{
		Email:     "admin@localhost",
		Password:  authhelpers.GetMD5Hash("admin"),
		FirstName: "Portal",
		LastName:  "Administrator",
		Role:      models.UserRoleAdmin,
	}
	if err := DB.Create(&rec).Error; err != nil {
		log.WithError(err).Error("failed to create default admin user")
		return
	}
	log.Warn("default admin user created (admin@localhost/admin), change the password")
}
