package pipeline

import "time"

// ResponsavelUnassigned is rendered when a record has no responsible employee
// or references one missing from the lookup table.
const ResponsavelUnassigned = "N/A"

// RecordView is the flat, client-ready shape of a pipeline record: the nested
// area relation collapsed to an ordered name list and the responsible
// employee resolved to a display name.
type RecordView struct {
	ID          int64     `json:"id"`
	NomeEmpresa string    `json:"nomeEmpresa"`
	NomeContato string    `json:"nomeContato"`
	Email       string    `json:"email,omitempty"`
	Telefone    string    `json:"telefone,omitempty"`
	Responsavel string    `json:"responsavel"`
	Etapa       string    `json:"etapa"`
	Areas       []string  `json:"areas"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BoardColumn is one kanban column: a stage plus its records.
type BoardColumn struct {
	Etapa string       `json:"etapa"`
	Items []RecordView `json:"items"`
}

// Flatten shapes a store record for rendering. Absent nested data never
// fails the record: a missing area relation becomes an empty list and an
// unresolvable responsible employee becomes the unassigned sentinel.
func Flatten(record Record, employeeNames map[int64]string) RecordView {
	areas := make([]string, 0, len(record.Areas))
	for _, area := range record.Areas {
		areas = append(areas, area.Nome)
	}

	responsavel := ResponsavelUnassigned
	if record.Responsavel != nil {
		if name, ok := employeeNames[*record.Responsavel]; ok {
			responsavel = name
		}
	}

	view := RecordView{
		ID:          record.ID,
		NomeEmpresa: record.NomeEmpresa,
		NomeContato: record.NomeContato,
		Responsavel: responsavel,
		Etapa:       record.Etapa,
		Areas:       areas,
		CreatedAt:   record.CreatedAt,
	}
	if record.Email != nil {
		view.Email = *record.Email
	}
	if record.Telefone != nil {
		view.Telefone = *record.Telefone
	}
	return view
}

// FlattenAll shapes a batch of records, skipping none.
func FlattenAll(records []Record, employeeNames map[int64]string) []RecordView {
	views := make([]RecordView, 0, len(records))
	for _, record := range records {
		views = append(views, Flatten(record, employeeNames))
	}
	return views
}

// BuildBoard groups records into kanban columns following the vocabulary
// order. Records whose stage is outside the vocabulary (e.g. archived leads)
// are left off the board.
func BuildBoard(records []Record, vocabulary []string, employeeNames map[int64]string) []BoardColumn {
	byStage := make(map[string][]RecordView, len(vocabulary))
	for _, record := range records {
		if !IsStage(vocabulary, record.Etapa) {
			continue
		}
		byStage[record.Etapa] = append(byStage[record.Etapa], Flatten(record, employeeNames))
	}

	columns := make([]BoardColumn, 0, len(vocabulary))
	for _, stage := range vocabulary {
		items := byStage[stage]
		if items == nil {
			items = make([]RecordView, 0)
		}
		columns = append(columns, BoardColumn{Etapa: stage, Items: items})
	}
	return columns
}

// CountByStage aggregates records per stage. Only stages actually present
// appear in the result.
func CountByStage(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, record := range records {
		counts[record.Etapa]++
	}
	return counts
}
