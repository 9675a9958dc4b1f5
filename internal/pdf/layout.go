package pdf

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/castroh/pdi-agent/internal/domain"
)

// BlockKind selects the typography used for a block.
type BlockKind int

const (
	// BlockHeader is the document title line.
	BlockHeader BlockKind = iota
	// BlockTitle is a section heading.
	BlockTitle
	// BlockBody is section content.
	BlockBody
	// BlockSpacer is a small vertical gap.
	BlockSpacer
)

// Block is one typographic unit of the report.
type Block struct {
	Kind BlockKind
	Text string
}

func header(text string) Block { return Block{Kind: BlockHeader, Text: text} }
func title(text string) Block  { return Block{Kind: BlockTitle, Text: text} }
func body(text string) Block   { return Block{Kind: BlockBody, Text: text} }

var spacer = Block{Kind: BlockSpacer}

// Sections lays the stored diagnostic out as a flat block list. Every facet
// value is untrusted: it may be absent, an error string left by a failed
// generation, or an object whose shape drifted from the expected one, and
// each branch degrades to printing what is actually there.
func Sections(analysis map[string]any, profile domain.Profile) []Block {
	name := profile.Name
	if name == "" {
		name = "Usuário"
	}

	blocks := []Block{header("PDI Agente: Diagnóstico de Carreira para " + name), spacer}

	blocks = appendSection(blocks, "Análise Geral da IA", stringify(valueOr(analysis, domain.FacetGeneralAnalysis, "N/A")))
	blocks = appendIdealCompany(blocks, analysis[domain.FacetIdealCompany])
	blocks = appendSmartPlan(blocks, analysis[domain.FacetSmartPlan])
	blocks = appendRecommendations(blocks, analysis[domain.FacetRecommendations])
	blocks = appendSection(blocks, "Próximos Passos (3 Meses)", bulletList(analysis[domain.FacetNextSteps]))
	blocks = appendSection(blocks, "Cargos Similares Sugeridos", bulletList(analysis[domain.FacetSimilarRoles]))
	blocks = appendActionPlan(blocks, analysis[domain.FacetHorizonActionMap])

	return blocks
}

// PlainText flattens the block list into the text shown in API responses.
func PlainText(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Kind {
		case BlockSpacer:
			b.WriteString("\n")
		default:
			b.WriteString(block.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func appendSection(blocks []Block, heading, content string) []Block {
	if content == "" {
		return blocks
	}
	return append(blocks, title(heading), body(content), spacer)
}

func appendIdealCompany(blocks []Block, value any) []Block {
	if m, ok := value.(map[string]any); ok {
		var text strings.Builder
		for _, key := range sortedKeys(m) {
			fmt.Fprintf(&text, "%s: %s\n", capitalize(key), stringify(m[key]))
		}
		return appendSection(blocks, "Perfil de Empresa Ideal", strings.TrimSpace(text.String()))
	}
	return appendSection(blocks, "Perfil de Empresa Ideal", stringify(value))
}

func appendSmartPlan(blocks []Block, value any) []Block {
	blocks = append(blocks, title("Plano SMART (Próximo Ano)"))

	plan, ok := value.(map[string]any)
	if !ok {
		if text := stringify(value); text != "" {
			blocks = append(blocks, body(text))
		}
		return append(blocks, spacer)
	}

	for _, key := range []string{"S", "M", "A", "R", "T"} {
		item, present := plan[key]
		if !present || item == nil || item == "" {
			continue
		}

		blocks = append(blocks, body("  - "+key+":"))

		if key == "M" {
			if goals, ok := item.([]any); ok {
				blocks = appendMeasurableGoals(blocks, goals)
				continue
			}
		}
		if key == "T" {
			if schedule, ok := item.(map[string]any); ok {
				blocks = appendSchedule(blocks, schedule)
				continue
			}
		}

		if m, ok := item.(map[string]any); ok {
			for _, subKey := range sortedKeys(m) {
				label := capitalize(strings.ReplaceAll(subKey, "_", " "))
				blocks = append(blocks, body("    * "+label+":\n"+subValueText(m[subKey])))
			}
			continue
		}

		blocks = append(blocks, body(stringify(item)))
	}

	return append(blocks, spacer)
}

// appendMeasurableGoals prints the M objectives as a numbered list with the
// metric, when present, on its own line.
func appendMeasurableGoals(blocks []Block, goals []any) []Block {
	for i, goal := range goals {
		n := i + 1
		m, ok := goal.(map[string]any)
		if !ok {
			blocks = append(blocks, body(fmt.Sprintf("    %d. %s", n, stringify(goal))))
			continue
		}

		detail := stringify(m["detalhe"])
		if detail == "" {
			detail = compactJSON(m)
		}
		metric := stringify(m["metrica"])
		if metric != "" {
			blocks = append(blocks, body(fmt.Sprintf("    %d. %s\n       (Métrica: %s)", n, detail, metric)))
		} else {
			blocks = append(blocks, body(fmt.Sprintf("    %d. %s", n, detail)))
		}
	}
	return blocks
}

// appendSchedule prints the T deadline and quarterly breakdown, tolerating
// the key spellings and container shapes the generator actually produces.
func appendSchedule(blocks []Block, schedule map[string]any) []Block {
	deadline := firstValue(schedule, "Data limite", "data limite", "Data_limite", "data_limite", "data")
	if text := stringify(deadline); text != "" {
		blocks = append(blocks, body("    Data limite: "+text))
	}

	timeline := firstValue(schedule, "Cronograma", "cronograma", "Cronogramas", "Trimestres")
	switch t := timeline.(type) {
	case []any:
		for _, quarter := range t {
			blocks = appendQuarter(blocks, quarter)
		}
	case map[string]any:
		for _, quarterName := range sortedKeys(t) {
			blocks = appendNamedQuarter(blocks, quarterName, t[quarterName])
		}
	default:
		blocks = append(blocks, body("    "+compactJSON(schedule)))
	}
	return blocks
}

func appendQuarter(blocks []Block, quarter any) []Block {
	m, ok := quarter.(map[string]any)
	if !ok {
		return append(blocks, body("    - "+stringify(quarter)))
	}

	quarterName := stringify(firstValue(m, "Trimestre", "trimestre", "periodo"))
	focus := stringify(firstValue(m, "Foco", "foco"))
	if quarterName != "" || focus != "" {
		line := strings.TrimSpace(quarterName)
		if focus != "" {
			line += " - Foco: " + focus
		}
		blocks = append(blocks, body("    "+line))
	}

	actions := firstValue(m, "Acoes", "acoes", "Ação", "acoes_list")
	switch a := actions.(type) {
	case []any:
		for _, action := range a {
			blocks = append(blocks, body("       - "+stringify(action)))
		}
	case nil:
	default:
		blocks = append(blocks, body("       - "+stringify(a)))
	}
	return blocks
}

func appendNamedQuarter(blocks []Block, name string, value any) []Block {
	var focus string
	var actions []any
	if m, ok := value.(map[string]any); ok {
		focus = stringify(firstValue(m, "Foco", "foco"))
		actions, _ = firstValue(m, "Acoes", "acoes").([]any)
	} else if list, ok := value.([]any); ok {
		actions = list
	} else {
		actions = []any{value}
	}

	line := name
	if focus != "" {
		line += " - Foco: " + focus
	}
	blocks = append(blocks, body("    "+line))
	for _, action := range actions {
		blocks = append(blocks, body("       - "+stringify(action)))
	}
	return blocks
}

func appendRecommendations(blocks []Block, value any) []Block {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return blocks
	}

	lines := make([]string, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", stringify(m["foco"]), stringify(m["recomendacao"])))
		} else {
			lines = append(lines, "- "+stringify(item))
		}
	}
	return appendSection(blocks, "Recomendações Focadas", strings.Join(lines, "\n"))
}

func appendActionPlan(blocks []Block, value any) []Block {
	plan, ok := value.(map[string]any)
	if !ok {
		return blocks
	}

	for _, horizon := range domain.PlanHorizons {
		items := bulletList(plan[horizon])
		if items == "" {
			continue
		}
		heading := "Plano de Ação para " + strings.ReplaceAll(horizon, "_", " ")
		blocks = appendSection(blocks, heading, items)
	}
	return blocks
}

// bulletList renders a slice as "- item" lines. Non-slice values (an error
// string from a failed facet, for instance) are printed as-is.
func bulletList(value any) string {
	switch t := value.(type) {
	case []any:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			lines = append(lines, "- "+stringify(item))
		}
		return strings.Join(lines, "\n")
	case nil:
		return ""
	default:
		return stringify(t)
	}
}

func subValueText(value any) string {
	list, ok := value.([]any)
	if !ok {
		return stringify(value)
	}

	var text strings.Builder
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			for _, k := range sortedKeys(m) {
				fmt.Fprintf(&text, "      - %s: %s\n", capitalize(k), stringify(m[k]))
			}
		} else {
			fmt.Fprintf(&text, "      - %s\n", stringify(item))
		}
	}
	return text.String()
}

func valueOr(m map[string]any, key, fallback string) any {
	if v, ok := m[key]; ok && v != nil && v != "" {
		return v
	}
	return fallback
}

func firstValue(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

// stringify renders any facet fragment as text. Structured leftovers fall
// back to compact JSON rather than Go's struct syntax.
func stringify(value any) string {
	switch t := value.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		return compactJSON(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func compactJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Map order is random in Go; sort so the report is stable run to run.
	sort.Strings(keys)
	return keys
}
