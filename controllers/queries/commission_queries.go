package queries

type CommissionQueries struct {
	Limit int `query:"limit" validate:"uint"`
	Page  int `query:"page" validate:"uint"`
}
