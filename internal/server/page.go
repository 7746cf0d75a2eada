package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/gmllt/kanbo/internal/model"
)

// boardTemplate renders a read-only snapshot of the board. html/template
// escaping keeps user-supplied titles and descriptions from injecting
// markup.
var boardTemplate = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>kanbo</title>
<style>
body { font-family: sans-serif; background: #f4f5f6; margin: 1rem; }
.board { display: flex; gap: 1rem; }
.column { flex: 1; background: #e1e4e8; border-radius: 6px; padding: .5rem; }
.column h2 { font-size: 1rem; margin: .25rem; }
.card { background: #fff; border-radius: 4px; padding: .5rem; margin: .5rem .25rem; }
.badge { font-size: .7rem; font-weight: bold; padding: 0 .3rem; border-radius: 3px; color: #fff; }
.badge.high { background: #e53935; }
.badge.medium { background: #ffc107; }
.badge.low { background: #8bc34a; }
.due { color: #666; font-size: .8rem; }
</style>
</head>
<body>
<div class="board">
{{range .Columns}}<div class="column">
<h2>{{.Title}} ({{.Count}})</h2>
{{range .Cards}}<div class="card">
<span class="badge {{.Priority}}">{{.Badge}}</span> {{.Title}}
{{if .DueDate}}<div class="due">due {{.DueDate}}</div>{{end}}
</div>
{{end}}</div>
{{end}}</div>
</body>
</html>
`))

type pageCard struct {
	Title    string
	Badge    string
	Priority string
	DueDate  string
}

type pageColumn struct {
	Title string
	Count int
	Cards []pageCard
}

type pageData struct {
	Columns []pageColumn
}

// handleBoardPage serves GET / with a server-rendered board.
func (s *Server) handleBoardPage(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("board page load failed", zap.Error(err))
		http.Error(w, "failed to load board", http.StatusInternalServerError)
		return
	}

	grouped := model.GroupByColumn(cards)
	data := pageData{}
	for _, col := range model.Columns {
		pc := pageColumn{Title: col.Title, Count: len(grouped[col.Key])}
		for _, c := range grouped[col.Key] {
			pc.Cards = append(pc.Cards, pageCard{
				Title:    c.Title,
				Badge:    model.PriorityBadge(c.Priority),
				Priority: model.NormalizePriority(c.Priority),
				DueDate:  c.DueDate,
			})
		}
		data.Columns = append(data.Columns, pc)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := boardTemplate.Execute(w, data); err != nil {
		s.log.Error("board page render failed", zap.Error(err))
	}
}
