package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/kerbaras/yomu/pkg/data"
	"github.com/kerbaras/yomu/pkg/utils"
)

const DefaultMangaDexURL = "https://api.mangadex.org"

var ErrInvalidChapterURL = errors.New("invalid chapter url")

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type chapterResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Title    string `json:"title"`
			Volume   string `json:"volume"`
			Number   string `json:"chapter"`
			Language string `json:"translatedLanguage"`
			Pages    int    `json:"pages"`
		} `json:"attributes"`
	} `json:"data"`
}

type atHomeResponse struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

type MangaDex struct {
	api       *utils.API
	dataSaver bool
}

// NewMangaDex creates a MangaDex source. An empty baseURL uses the public
// API; a nil client uses http.DefaultClient.
func NewMangaDex(baseURL string, client *http.Client) *MangaDex {
	if baseURL == "" {
		baseURL = DefaultMangaDexURL
	}
	return &MangaDex{api: utils.NewAPI(baseURL, client)}
}

// WithDataSaver switches page images to the compressed variants.
func (m *MangaDex) WithDataSaver(enabled bool) *MangaDex {
	m.dataSaver = enabled
	return m
}

// ChapterID extracts the chapter UUID from a mangadex.org chapter URL or a
// bare UUID.
func ChapterID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if uuidPattern.MatchString(raw) {
		return strings.ToLower(raw), nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidChapterURL, raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "chapter" && uuidPattern.MatchString(parts[i+1]) {
			return strings.ToLower(parts[i+1]), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChapterURL, raw)
}

func (m *MangaDex) FetchChapter(ctx context.Context, rawURL string) (*data.Chapter, error) {
	id, err := ChapterID(rawURL)
	if err != nil {
		return nil, err
	}

	var chapter chapterResponse
	if err := m.api.Get(ctx, "/chapter/"+id, nil, &chapter); err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	var server atHomeResponse
	if err := m.api.Get(ctx, "/at-home/server/"+id, nil, &server); err != nil {
		return nil, fmt.Errorf("failed to get pages: %w", err)
	}

	mode, files := "data", server.Chapter.Data
	if m.dataSaver && len(server.Chapter.DataSaver) > 0 {
		mode, files = "data-saver", server.Chapter.DataSaver
	}

	pages := make([]data.Page, len(files))
	for i, file := range files {
		pages[i] = data.Page{
			ID:       fmt.Sprintf("%s-%d", id, i+1),
			ImageURL: fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(server.BaseURL, "/"), mode, server.Chapter.Hash, file),
			Number:   i + 1,
		}
	}

	attrs := chapter.Data.Attributes
	title := attrs.Title
	if title == "" {
		title = fmt.Sprintf("Chapter %s", attrs.Number)
	}
	return &data.Chapter{
		ID:     id,
		Title:  title,
		Number: chapterNumber(attrs.Number),
		Pages:  pages,
		URL:    rawURL,
	}, nil
}

// chapterNumber truncates decimal chapters ("10.5") and maps oneshots to 0.
func chapterNumber(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
