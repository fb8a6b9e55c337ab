package model

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&Company{},
		&User{},
		&Job{},
		&Application{},
		&RecruiterAction{},
	)
}

// LoginResponse is the body returned by the auth endpoints
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
