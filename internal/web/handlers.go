package web

import (
	"net/http"
	"strconv"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/ops"
	"github.com/hpungsan/atext2csv/internal/writer"
)

// List limits
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	loaded   *ops.Loaded
	cfg      *config.Config
	renderer *Renderer
}

func (h *Handlers) page(title, nav string) PageData {
	return PageData{
		Title:   title,
		Version: h.renderer.version,
		Nav:     nav,
		Source:  h.loaded.Source,
	}
}

// HandleList handles GET /snippets, optionally filtered by ?group=.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	group, grouped := q.Get("group"), q.Has("group")

	var items []SnippetItem
	for i, rec := range h.loaded.Records {
		if grouped && rec.Group != group {
			continue
		}
		items = append(items, SnippetItem{Index: i, Record: rec})
	}

	limit := parseIntParam(r, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset := max(parseIntParam(r, "offset", 0), 0)
	start := min(offset, len(items))
	end := min(start+limit, len(items))
	page := ops.Pagination{Limit: limit, Offset: offset, HasMore: end < len(items), Total: len(items)}

	if wantsJSON(r) {
		records := make([]any, 0, end-start)
		for _, it := range items[start:end] {
			records = append(records, it.Record)
		}
		renderJSON(w, http.StatusOK, map[string]any{"items": records, "pagination": page})
		return
	}

	title := "Snippets"
	if grouped {
		title = groupName(group)
	}
	h.renderer.renderPage(w, "list", ListPageData{
		PageData:   h.page(title, "snippets"),
		Items:      items[start:end],
		Pagination: page,
		Group:      group,
		Grouped:    grouped,
	})
}

// HandleDetail handles GET /snippets/{index}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 || index >= len(h.loaded.Records) {
		h.renderer.renderError(w, r, errors.NewNotFound(r.PathValue("index")))
		return
	}

	rec := h.loaded.Records[index]
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, rec)
		return
	}

	title := rec.Name
	if title == "" {
		title = rec.Trigger
	}
	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: h.page(title, "snippets"),
		Item:     SnippetItem{Index: index, Record: rec},
	})
}

// HandleSearch handles GET /snippets/search?q=.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := SearchPageData{
		PageData: h.page("Search", "search"),
		Query:    q.Get("q"),
		Group:    q.Get("group"),
		Type:     q.Get("type"),
		HasQuery: q.Get("q") != "",
	}

	if !data.HasQuery {
		h.renderer.renderPage(w, "search", data)
		return
	}

	result, err := ops.Search(h.loaded.Records, ops.SearchInput{
		Query:  data.Query,
		Group:  ptrString(data.Group),
		Type:   ptrString(data.Type),
		Limit:  parseIntParam(r, "limit", ops.DefaultSearchLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Items = result.Items
	data.Pagination = result.Pagination
	h.renderer.renderPage(w, "search", data)
}

// HandleGroups handles GET /groups.
func (h *Handlers) HandleGroups(w http.ResponseWriter, r *http.Request) {
	result := ops.Groups(h.loaded.Records, ops.GroupsInput{
		NamePrefix: ptrString(r.URL.Query().Get("prefix")),
		Limit:      parseIntParam(r, "limit", ops.DefaultGroupsLimit),
		Offset:     parseIntParam(r, "offset", 0),
	})

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, "groups", GroupsPageData{
		PageData:   h.page("Groups", "groups"),
		Items:      result.Items,
		Snippets:   result.Snippets,
		Pagination: result.Pagination,
	})
}

// HandleReport handles GET /report, the Markdown report rendered as HTML.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	body, err := writer.RenderHTML(h.loaded.Records, writer.Options{PreviewChars: h.cfg.PreviewChars})
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	h.renderer.renderPage(w, "report", ReportPageData{
		PageData: h.page("Report", "report"),
		Body:     body,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
