package domain

import "time"

// HierarchyLevels are the fixed seniority levels a profile may declare.
var HierarchyLevels = []string{
	"Assistente/Auxiliar",
	"Junior (I)",
	"Pleno (II)",
	"Sênior (III)",
	"Especialista",
	"Liderança",
	"C-Level",
}

// PlanHorizons are the fixed planning distances, in display order.
var PlanHorizons = []string{"1_ano", "3_anos", "5_anos", "10_anos", "15_anos"}

// ValidHierarchyLevel reports whether level is one of the fixed values.
func ValidHierarchyLevel(level string) bool {
	for _, l := range HierarchyLevels {
		if l == level {
			return true
		}
	}
	return false
}

// UserRecord is the single document stored per user, keyed by e-mail.
type UserRecord struct {
	Email         string         `bson:"_id" json:"email"`
	Profile       Profile        `bson:"profile" json:"profile"`
	PDIPlan       CareerPlan     `bson:"pdi_plan" json:"pdi_plan"`
	Security      Security       `bson:"security" json:"-"`
	UsageTracking UsageTracking  `bson:"usage_tracking,omitempty" json:"usage_tracking,omitempty"`
	AIAnalysis    map[string]any `bson:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`
}

// NewUserRecord creates the empty record written at registration.
func NewUserRecord(email, name, passwordHash string) *UserRecord {
	return &UserRecord{
		Email: email,
		Profile: Profile{
			Name:             name,
			Email:            email,
			Skills:           []string{},
			ImprovementAreas: []string{},
		},
		PDIPlan: CareerPlan{
			TemporalGoals: map[string]HorizonGoal{},
		},
		Security: Security{PasswordHash: passwordHash},
	}
}

// Profile holds the fields the AI needs to understand the user's context.
// Field names on the wire keep the original Portuguese keys the analysis
// prompts and stored documents use.
type Profile struct {
	Name             string   `bson:"nome" json:"nome"`
	Email            string   `bson:"email" json:"email"`
	LinkedInURL      string   `bson:"linkedin_url,omitempty" json:"linkedin_url,omitempty"`
	CurrentRole      string   `bson:"cargo_atual,omitempty" json:"cargo_atual,omitempty"`
	HierarchyLevel   string   `bson:"nivel_hierarquico,omitempty" json:"nivel_hierarquico,omitempty"`
	Skills           []string `bson:"habilidades_atuais" json:"habilidades_atuais"`
	ImprovementAreas []string `bson:"pontos_a_melhorar" json:"pontos_a_melhorar"`
	Summary          string   `bson:"resumo_profissional,omitempty" json:"resumo_profissional,omitempty"`
	// FullLinkedInText is the last scraped page text; refreshed on every run.
	FullLinkedInText string `bson:"full_linkedin_text,omitempty" json:"full_linkedin_text,omitempty"`
}

// HorizonGoal is one intermediate goal of the career plan.
type HorizonGoal struct {
	TargetRole string `bson:"cargo_alvo" json:"cargo_alvo"`
	MainFocus  string `bson:"foco_principal" json:"foco_principal"`
}

// CareerPlan is the user's multi-horizon development plan.
type CareerPlan struct {
	FinalObjective string                 `bson:"objetivo_final" json:"objetivo_final"`
	TemporalGoals  map[string]HorizonGoal `bson:"metas_temporais" json:"metas_temporais"`
}

// Security holds credential material. Never serialized to API responses.
type Security struct {
	PasswordHash     string `bson:"password_hash" json:"-"`
	ResetToken       string `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpiry string `bson:"reset_token_expiry,omitempty" json:"-"`
}

// UsageTracking records one timestamp per analysis run, used for the
// rolling usage quota.
type UsageTracking struct {
	AnalysisTimestamps []string `bson:"analysis_timestamps,omitempty" json:"analysis_timestamps,omitempty"`
}

// AppendRun records a run started at t.
func (u *UsageTracking) AppendRun(t time.Time) {
	u.AnalysisTimestamps = append(u.AnalysisTimestamps, t.Format(time.RFC3339))
}

// RecentRuns returns the parsed timestamps newer than cutoff. Unparsable
// entries are skipped rather than failing the quota check.
func (u UsageTracking) RecentRuns(cutoff time.Time) []time.Time {
	var recent []time.Time
	for _, raw := range u.AnalysisTimestamps {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue
		}
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}
