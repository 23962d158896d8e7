package auth

import (
	_ "embed"
	"fmt"
	"go-rango-app/internal/logger"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	"github.com/jmoiron/sqlx"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

//go:embed auth_model.conf
var modelText string

const (
	// RoleAnonymous is the subject used for requests without a logged-in user.
	RoleAnonymous = "anonymous"
	// RoleUser is the role every logged-in user is enforced as.
	RoleUser = "user"
)

// NewEnforcer creates and configures a new Casbin enforcer.
// Policies are stored in the casbin_rule table of the application's database
// and loaded once at construction.
func NewEnforcer(db *sqlx.DB) (*casbin.Enforcer, error) {
	adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
		DB:        db,
		TableName: "casbin_rule",
	})

	m, err := NewModel()
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	// keyMatch2 lets "/rango/category/:slug/" match any slug.
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}

	return enforcer, nil
}

// NewModel parses the embedded RBAC model.
func NewModel() (model.Model, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}
	return m, nil
}

// DefaultPolicies lists the baseline rules. Anonymous visitors can browse and
// sign in; users additionally manage content and their session.
var DefaultPolicies = [][]string{
	{RoleAnonymous, "/", "GET"},
	{RoleAnonymous, "/rango/", "GET"},
	{RoleAnonymous, "/rango/about/", "GET"},
	{RoleAnonymous, "/rango/category/:slug/", "GET"},
	{RoleAnonymous, "/rango/goto/", "GET"},
	{RoleAnonymous, "/rango/register/", "(GET)|(POST)"},
	{RoleAnonymous, "/rango/login/", "(GET)|(POST)"},
	{RoleAnonymous, "/rango/login/oidc/", "GET"},
	{RoleAnonymous, "/rango/login/oidc/callback/", "GET"},
	{RoleAnonymous, "/robots.txt", "GET"},
	{RoleAnonymous, "/sitemap.xml", "GET"},

	{RoleUser, "/rango/add_category/", "(GET)|(POST)"},
	{RoleUser, "/rango/category/:slug/add_page/", "(GET)|(POST)"},
	{RoleUser, "/rango/restricted/", "GET"},
	{RoleUser, "/rango/logout/", "(GET)|(POST)"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Users can do everything anonymous visitors can.
	if has, _ := e.HasRoleForUser(RoleUser, RoleAnonymous); !has {
		if _, err := e.AddRoleForUser(RoleUser, RoleAnonymous); err != nil {
			log.Error(err, "Failed to add role 'user' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}
