package attendance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/school-hub/attendance-regularity/internal/domain/shared"
)

const (
	// DefaultReasonLimit caps reason rankings.
	DefaultReasonLimit = 10

	// OtherReasonCode is the catch-all code refined by Record.OtherReasonText.
	OtherReasonCode = "otro"
)

// ReasonCount is one entry of a reason ranking.
type ReasonCount struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ReasonCatalog resolves a reason code to its display label.
type ReasonCatalog interface {
	Label(code string) (string, bool)
}

// ReasonTable is a static code to label catalog.
type ReasonTable map[string]string

// Label implements ReasonCatalog.
func (t ReasonTable) Label(code string) (string, bool) {
	l, ok := t[code]
	return l, ok
}

// DefaultJustificationCatalog returns the institution's justified-absence reasons.
func DefaultJustificationCatalog() ReasonTable {
	return ReasonTable{
		"certificado_medico":    "Certificado médico",
		"tramite_familiar":      "Trámite familiar",
		"viaje_familiar":        "Viaje familiar",
		"duelo_familiar":        "Duelo familiar",
		"consulta_medica":       "Consulta médica",
		"estudios_medicos":      "Estudios médicos",
		"tramite_documentacion": "Trámite de documentación",
		"problema_transporte":   "Problema de transporte",
		"emergencia_familiar":   "Emergencia familiar",
		"actividad_deportiva":   "Actividad deportiva",
		"actividad_cultural":    "Actividad cultural",
		"comparendo_judicial":   "Comparendo judicial",
		"mudanza":               "Mudanza",
		"boda_familiar":         "Boda familiar",
		"nacimiento_hermano":    "Nacimiento de hermano/a",
		OtherReasonCode:         "Otro motivo",
	}
}

// DefaultExclusionCatalog returns the institution's excluded-day reasons.
func DefaultExclusionCatalog() ReasonTable {
	return ReasonTable{
		"salida_institucional":         "Salida institucional",
		"actividad_escolar":            "Actividad escolar",
		"representacion_institucional": "Representación institucional",
		"acto_escolar":                 "Acto escolar",
		"suspension_clases":            "Suspensión de clases",
		"feriado_especial":             "Feriado especial",
		"otro_institucional":           "Otro motivo institucional",
	}
}

// RankReasons counts the reasons of records in the target state (justified or
// excluded) and returns the most frequent first, ties in order of first
// appearance, capped at limit (DefaultReasonLimit when limit <= 0).
//
// Blank reasons are skipped. Unknown codes are labelled with the raw code.
// Rows are counted per code. The "otro" label carries its free text as
// "label: text" only when every "otro" row has the same text.
func RankReasons(records []Record, target State, catalog ReasonCatalog, limit int) ([]ReasonCount, error) {
	if target != StateJustified && target != StateExcluded {
		return nil, shared.NewDomainError("attendance", "RankReasons", shared.ErrInvalidInput,
			fmt.Sprintf("reasons are only ranked for %s or %s, got %q", StateJustified, StateExcluded, string(target)))
	}
	if limit <= 0 {
		limit = DefaultReasonLimit
	}

	index := make(map[string]int)
	var (
		ranked []ReasonCount
		notes  []string
		mixed  []bool
	)

	for _, r := range records {
		if r.State != target {
			continue
		}
		code := reasonCode(r, target)
		if code == "" {
			continue
		}

		note := ""
		if code == OtherReasonCode && r.OtherReasonText != nil {
			note = strings.TrimSpace(*r.OtherReasonText)
		}

		i, ok := index[code]
		if !ok {
			index[code] = len(ranked)
			ranked = append(ranked, ReasonCount{Code: code, Count: 1})
			notes = append(notes, note)
			mixed = append(mixed, false)
			continue
		}
		ranked[i].Count++
		if note != notes[i] {
			mixed[i] = true
		}
	}

	for i := range ranked {
		note := notes[i]
		if mixed[i] {
			note = ""
		}
		ranked[i].Label = reasonLabel(catalog, ranked[i].Code, note)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func reasonCode(r Record, target State) string {
	var p *string
	if target == StateJustified {
		p = r.JustificationReason
	} else {
		p = r.ExclusionReason
	}
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func reasonLabel(catalog ReasonCatalog, code, other string) string {
	label := code
	if catalog != nil {
		if l, ok := catalog.Label(code); ok && l != "" {
			label = l
		}
	}
	if other != "" {
		return label + ": " + other
	}
	return label
}
