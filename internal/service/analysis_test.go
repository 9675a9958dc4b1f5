package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/castroh/pdi-agent/internal/config"
	"github.com/castroh/pdi-agent/internal/domain"
)

func analysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		RunTimeout:    time.Minute,
		RunsPerWindow: 2,
		WindowDays:    30,
		PowerUsers:    []string{"admin@example.com"},
	}
}

func recordWithURL(email string) *domain.UserRecord {
	rec := domain.NewUserRecord(email, "Ana", "hash")
	rec.Profile.LinkedInURL = "https://www.linkedin.com/in/ana"
	return rec
}

// drain waits for the worker to finish and collects every buffered message.
func drain(t *testing.T, run *AnalysisRun) []StatusMessage {
	t.Helper()

	select {
	case <-run.done:
	case <-time.After(5 * time.Second):
		t.Fatal("analysis worker did not finish")
	}

	var msgs []StatusMessage
	for {
		select {
		case m := <-run.Messages:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

func TestAnalysisRunSuccess(t *testing.T) {
	users := new(MockUserStore)
	scraper := new(MockScraper)
	facets := new(MockFacetGenerator)
	svc := NewAnalysisService(users, scraper, facets, analysisConfig())

	rec := recordWithURL("ana@example.com")
	scraper.On("CheckBrowser").Return(nil)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(rec, nil)
	scraper.On("ProfileText", mock.Anything, rec.Profile.LinkedInURL).Return("scraped profile text", nil)
	for _, key := range domain.FacetKeys {
		facets.On("GenerateValue", mock.Anything, mock.Anything, key).
			Return(map[string]any{"ok": key}, nil).Once()
	}

	run, err := svc.Start("ana@example.com")
	require.NoError(t, err)

	msgs := drain(t, run)
	require.NotEmpty(t, msgs)

	last := msgs[len(msgs)-1]
	assert.Equal(t, StatusComplete, last.Status)
	require.NotNil(t, last.Record)
	assert.Equal(t, "scraped profile text", last.Record.Profile.FullLinkedInText)
	assert.Len(t, last.Record.UsageTracking.AnalysisTimestamps, 1)
	for _, key := range domain.FacetKeys {
		assert.Contains(t, last.Record.AIAnalysis, key)
	}

	for _, m := range msgs[:len(msgs)-1] {
		assert.Equal(t, StatusInfo, m.Status)
	}
	facets.AssertExpectations(t)
}

func TestAnalysisRunMissingURL(t *testing.T) {
	users := new(MockUserStore)
	scraper := new(MockScraper)
	facets := new(MockFacetGenerator)
	svc := NewAnalysisService(users, scraper, facets, analysisConfig())

	rec := domain.NewUserRecord("ana@example.com", "Ana", "hash")
	scraper.On("CheckBrowser").Return(nil)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(rec, nil)

	run, err := svc.Start("ana@example.com")
	require.NoError(t, err)

	msgs := drain(t, run)
	last := msgs[len(msgs)-1]
	assert.Equal(t, StatusError, last.Status)
	assert.Equal(t, "URL do LinkedIn não encontrada no perfil.", last.Message)
	scraper.AssertNotCalled(t, "ProfileText", mock.Anything, mock.Anything)
}

func TestAnalysisRunScrapeFailure(t *testing.T) {
	users := new(MockUserStore)
	scraper := new(MockScraper)
	facets := new(MockFacetGenerator)
	svc := NewAnalysisService(users, scraper, facets, analysisConfig())

	rec := recordWithURL("ana@example.com")
	scraper.On("CheckBrowser").Return(nil)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(rec, nil)
	scraper.On("ProfileText", mock.Anything, mock.Anything).
		Return("", errors.New("a página demorou muito para carregar"))

	run, err := svc.Start("ana@example.com")
	require.NoError(t, err)

	msgs := drain(t, run)
	last := msgs[len(msgs)-1]
	assert.Equal(t, StatusError, last.Status)
	assert.Nil(t, last.Record)
	facets.AssertNotCalled(t, "GenerateValue", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisRunFacetFailureDegrades(t *testing.T) {
	users := new(MockUserStore)
	scraper := new(MockScraper)
	facets := new(MockFacetGenerator)
	svc := NewAnalysisService(users, scraper, facets, analysisConfig())

	rec := recordWithURL("ana@example.com")
	scraper.On("CheckBrowser").Return(nil)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(rec, nil)
	scraper.On("ProfileText", mock.Anything, mock.Anything).Return("text", nil)

	broken := domain.FacetKeys[2]
	for _, key := range domain.FacetKeys {
		if key == broken {
			facets.On("GenerateValue", mock.Anything, mock.Anything, key).
				Return(nil, errors.New("quota exceeded")).Once()
			continue
		}
		facets.On("GenerateValue", mock.Anything, mock.Anything, key).
			Return(map[string]any{"ok": true}, nil).Once()
	}

	run, err := svc.Start("ana@example.com")
	require.NoError(t, err)

	msgs := drain(t, run)
	last := msgs[len(msgs)-1]
	require.Equal(t, StatusComplete, last.Status)
	assert.Equal(t, "Erro ao gerar esta seção: quota exceeded", last.Record.AIAnalysis[broken])
	assert.Len(t, last.Record.AIAnalysis, len(domain.FacetKeys))
}

func TestAnalysisStartRejectsConcurrentRun(t *testing.T) {
	users := new(MockUserStore)
	scraper := new(MockScraper)
	facets := new(MockFacetGenerator)
	svc := NewAnalysisService(users, scraper, facets, analysisConfig())

	started := make(chan struct{})
	release := make(chan struct{})
	scraper.On("CheckBrowser").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(errors.New("stop here"))

	run, err := svc.Start("ana@example.com")
	require.NoError(t, err)
	<-started

	_, err = svc.Start("ana@example.com")
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	close(release)
	drain(t, run)

	// Other users are unaffected.
	scraper2 := new(MockScraper)
	scraper2.On("CheckBrowser").Return(errors.New("stop here"))
	svc2 := NewAnalysisService(users, scraper2, facets, analysisConfig())
	_, err = svc2.Start("outra@example.com")
	assert.NoError(t, err)
}

func TestAnalysisPollPersistsOnComplete(t *testing.T) {
	users := new(MockUserStore)
	scraper := new(MockScraper)
	facets := new(MockFacetGenerator)
	svc := NewAnalysisService(users, scraper, facets, analysisConfig())

	rec := recordWithURL("ana@example.com")
	scraper.On("CheckBrowser").Return(nil)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(rec, nil)
	scraper.On("ProfileText", mock.Anything, mock.Anything).Return("text", nil)
	for _, key := range domain.FacetKeys {
		facets.On("GenerateValue", mock.Anything, mock.Anything, key).
			Return(map[string]any{}, nil)
	}
	users.On("Save", mock.Anything, mock.AnythingOfType("*domain.UserRecord")).Return(nil).Once()

	run, err := svc.Start("ana@example.com")
	require.NoError(t, err)

	select {
	case <-run.done:
	case <-time.After(5 * time.Second):
		t.Fatal("analysis worker did not finish")
	}

	msgs, active, err := svc.Poll(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.False(t, active)
	assert.Equal(t, StatusComplete, msgs[len(msgs)-1].Status)
	users.AssertExpectations(t)

	// The slot is free again once the terminal message was consumed.
	msgs, active, err = svc.Poll(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.False(t, active)
	assert.Empty(t, msgs)
}

func TestAnalysisQuotaPowerUserBypass(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAnalysisService(users, new(MockScraper), new(MockFacetGenerator), analysisConfig())

	status, err := svc.Quota(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.False(t, status.Exhausted)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAnalysisQuotaExhausted(t *testing.T) {
	users := new(MockUserStore)
	svc := NewAnalysisService(users, new(MockScraper), new(MockFacetGenerator), analysisConfig())

	rec := recordWithURL("ana@example.com")
	rec.UsageTracking.AppendRun(time.Now().Add(-20 * 24 * time.Hour))
	rec.UsageTracking.AppendRun(time.Now().Add(-time.Hour))
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(rec, nil)

	status, err := svc.Quota(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, status.Exhausted)
	assert.Equal(t, 10, status.WaitDays)
}
