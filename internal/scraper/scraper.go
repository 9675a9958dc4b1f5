package scraper

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/castroh/pdi-agent/internal/config"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// extractScript returns the visible text of the profile's main content
// region. The specific selector tracks LinkedIn's layout; the bare <main>
// fallback survives layout changes.
const extractScript = `(() => {
	const el = document.querySelector("main.scaffold-layout__main") || document.querySelector("main");
	return el ? el.innerText : "";
})()`

// Scraper extracts the visible text of a public profile page with a
// headless browser. One isolated browser instance per scrape.
type Scraper struct {
	cfg config.ScraperConfig
}

// NewScraper creates a new scraper
func NewScraper(cfg config.ScraperConfig) *Scraper {
	return &Scraper{cfg: cfg}
}

// CheckBrowser verifies a Chrome binary is resolvable before a run starts.
// Scraping must not be attempted without working browser tooling.
func (s *Scraper) CheckBrowser() error {
	candidates := []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"}
	if s.cfg.ChromePath != "" {
		candidates = []string{s.cfg.ChromePath}
	}

	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return nil
		}
	}
	return fmt.Errorf("nenhum navegador Chrome/Chromium encontrado (verifique a instalação ou defina CHROME_PATH)")
}

// ProfileText navigates to url, scrolls until the page height stops growing
// so lazy-loaded sections materialize, and returns the innerText of the main
// content region. The browser is released on every exit path.
func (s *Scraper) ProfileText(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, s.cfg.NavigationTimeout)
	defer cancelRun()

	log.Info().Str("url", url).Msg("Starting profile scrape")

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", navigationError(url, err)
	}

	if err := s.scrollToBottom(runCtx); err != nil {
		return "", navigationError(url, err)
	}

	var text string
	if err := chromedp.Run(runCtx, chromedp.Evaluate(extractScript, &text)); err != nil {
		return "", navigationError(url, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.New("não foi possível encontrar o contêiner principal do perfil (a página pode ter exigido login)")
	}

	log.Info().Int("chars", len(text)).Msg("Profile scrape finished")
	return text, nil
}

// scrollToBottom repeats scroll-and-pause until the measured document height
// stops growing, bounded by MaxScrolls.
func (s *Scraper) scrollToBottom(ctx context.Context) error {
	var lastHeight float64
	if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &lastHeight)); err != nil {
		return err
	}

	for i := 0; i < s.cfg.MaxScrolls; i++ {
		var height float64
		err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(s.cfg.ScrollPause),
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		)
		if err != nil {
			return err
		}
		if height == lastHeight {
			break
		}
		lastHeight = height
	}
	return nil
}

// navigationError keeps timeouts distinguishable from other failures; the
// orchestrator surfaces the text verbatim to the end user.
func navigationError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("a página '%s' demorou muito para carregar ou é inválida", url)
	}
	return fmt.Errorf("erro inesperado durante o scraping: %w", err)
}
