package models

// PricingRow строка таблицы цен: цена для тройки
// (период регистрации, соревнование, уровень образования).
type PricingRow struct {
	BatchID        int64
	CompetitionID  int64
	EducationLevel string
	Price          int
}
