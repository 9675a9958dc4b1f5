package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/castroh/pdi-agent/internal/config"
	"github.com/castroh/pdi-agent/internal/domain"
	"github.com/castroh/pdi-agent/internal/genai"
)

// StatusKind tags a message on the analysis status channel.
type StatusKind string

const (
	StatusInfo     StatusKind = "info"
	StatusComplete StatusKind = "complete"
	StatusError    StatusKind = "error"
)

// StatusMessage is one progress update from a running analysis. Record is
// only set on the complete message and carries the merged result the
// consumer persists.
type StatusMessage struct {
	Status  StatusKind         `json:"status"`
	Message string             `json:"message,omitempty"`
	Record  *domain.UserRecord `json:"-"`
}

// Terminal reports whether the message ends the run.
func (m StatusMessage) Terminal() bool {
	return m.Status == StatusComplete || m.Status == StatusError
}

// totalSteps is browser preflight plus profile load/scrape plus the seven
// diagnostic facets, as surfaced in the progress messages.
const totalSteps = 8

// messageBuffer holds a full run's worth of messages so the worker never
// blocks on a slow poller.
const messageBuffer = 16

// AnalysisRun is one in-flight diagnostic for one user.
type AnalysisRun struct {
	ID       uuid.UUID
	Email    string
	Messages chan StatusMessage

	done chan struct{}
}

// Finished reports whether the worker goroutine has exited. Messages may
// still be buffered after that.
func (r *AnalysisRun) Finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// AnalysisService runs the diagnostic pipeline: scrape the profile page,
// generate the seven facets, and hand the merged record back over the
// status channel. At most one run per user is active at a time.
type AnalysisService struct {
	users   UserStore
	scraper ProfileScraper
	facets  FacetGenerator
	cfg     config.AnalysisConfig

	mu   sync.Mutex
	runs map[string]*AnalysisRun

	now func() time.Time
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(users UserStore, scraper ProfileScraper, facets FacetGenerator, cfg config.AnalysisConfig) *AnalysisService {
	return &AnalysisService{
		users:   users,
		scraper: scraper,
		facets:  facets,
		cfg:     cfg,
		runs:    map[string]*AnalysisRun{},
		now:     time.Now,
	}
}

// Quota returns the user's current quota status. Power users always get a
// non-exhausted status.
func (s *AnalysisService) Quota(ctx context.Context, email string) (QuotaStatus, error) {
	if s.isPowerUser(email) {
		return QuotaStatus{}, nil
	}

	rec, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return QuotaStatus{}, err
	}
	if rec == nil {
		return QuotaStatus{}, ErrUserNotFound
	}

	window := time.Duration(s.cfg.WindowDays) * 24 * time.Hour
	return CheckQuota(rec.UsageTracking, s.now(), s.cfg.RunsPerWindow, window), nil
}

// Start launches the pipeline for a user and returns the run handle. The
// quota is the caller's concern; Start only refuses a second concurrent
// run for the same user.
func (s *AnalysisService) Start(email string) (*AnalysisRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.runs[email]; ok && !run.Finished() {
		return nil, ErrAnalysisInFlight
	}

	run := &AnalysisRun{
		ID:       uuid.New(),
		Email:    email,
		Messages: make(chan StatusMessage, messageBuffer),
		done:     make(chan struct{}),
	}
	s.runs[email] = run

	go s.work(run)

	log.Info().Str("email", email).Str("run_id", run.ID.String()).Msg("Analysis started")
	return run, nil
}

// Poll drains the buffered status messages for the user's run without
// blocking. When the complete message is consumed the merged record is
// persisted and the run slot is released; an error message releases the
// slot without persisting. The second return value reports whether a run
// is still attached to the user.
func (s *AnalysisService) Poll(ctx context.Context, email string) ([]StatusMessage, bool, error) {
	s.mu.Lock()
	run, ok := s.runs[email]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var msgs []StatusMessage
	for {
		select {
		case m := <-run.Messages:
			msgs = append(msgs, m)
			if !m.Terminal() {
				continue
			}
			if m.Status == StatusComplete && m.Record != nil {
				if err := s.users.Save(ctx, m.Record); err != nil {
					return msgs, false, fmt.Errorf("failed to persist analysis: %w", err)
				}
				log.Info().Str("email", email).Str("run_id", run.ID.String()).Msg("Analysis persisted")
			}
			s.release(email, run)
			return msgs, false, nil
		default:
			return msgs, true, nil
		}
	}
}

func (s *AnalysisService) release(email string, run *AnalysisRun) {
	s.mu.Lock()
	if s.runs[email] == run {
		delete(s.runs, email)
	}
	s.mu.Unlock()
}

func (s *AnalysisService) isPowerUser(email string) bool {
	for _, u := range s.cfg.PowerUsers {
		if strings.EqualFold(u, email) {
			return true
		}
	}
	return false
}

func (s *AnalysisService) work(run *AnalysisRun) {
	defer close(run.done)
	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("email", run.Email).Interface("panic", p).Msg("Analysis worker panicked")
			run.emit(StatusMessage{Status: StatusError, Message: "Um erro crítico ocorreu durante a análise."})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()

	run.emit(info("Inicializando análise... Verificando dependências do navegador..."))
	if err := s.scraper.CheckBrowser(); err != nil {
		run.fail(err)
		return
	}
	run.emit(info("Dependências prontas."))

	run.emit(info(fmt.Sprintf("Passo 1/%d: Lendo seu perfil no LinkedIn...", totalSteps)))
	rec, err := s.users.GetByEmail(ctx, run.Email)
	if err != nil {
		run.fail(err)
		return
	}
	if rec == nil {
		run.fail(ErrUserNotFound)
		return
	}
	if rec.Profile.LinkedInURL == "" {
		run.emit(StatusMessage{Status: StatusError, Message: "URL do LinkedIn não encontrada no perfil."})
		return
	}

	text, err := s.scraper.ProfileText(ctx, rec.Profile.LinkedInURL)
	if err != nil {
		run.fail(err)
		return
	}
	rec.Profile.FullLinkedInText = text

	prompts := genai.BuildFacetPrompts(rec.Profile, rec.PDIPlan, s.now())
	analysis := make(map[string]any, len(prompts))
	for i, p := range prompts {
		run.emit(info(fmt.Sprintf("Passo %d/%d: %s...", i+2, totalSteps, p.Label)))

		value, err := s.facets.GenerateValue(ctx, p.Prompt, p.Key)
		if err != nil {
			log.Error().Err(err).Str("email", run.Email).Str("facet", p.Key).Msg("Facet generation failed")
			analysis[p.Key] = "Erro ao gerar esta seção: " + err.Error()
			continue
		}
		analysis[p.Key] = value
	}

	rec.AIAnalysis = analysis
	rec.UsageTracking.AppendRun(s.now())

	run.emit(StatusMessage{
		Status:  StatusComplete,
		Message: "Diagnóstico concluído com sucesso!",
		Record:  rec,
	})
}

func (r *AnalysisRun) emit(m StatusMessage) {
	select {
	case r.Messages <- m:
	default:
		// The buffer covers a full run; only a stuck consumer gets here.
		log.Warn().Str("email", r.Email).Str("status", string(m.Status)).Msg("Dropped analysis status message")
	}
}

func (r *AnalysisRun) fail(err error) {
	log.Error().Err(err).Str("email", r.Email).Msg("Analysis failed")
	r.emit(StatusMessage{Status: StatusError, Message: err.Error()})
}

func info(msg string) StatusMessage {
	return StatusMessage{Status: StatusInfo, Message: msg}
}
