package dataaccess

const (
	mongoDatabase = "verifier"

	decisionsCollection = "decisions"
)
