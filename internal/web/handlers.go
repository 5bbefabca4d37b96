package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moviefinder/internal/logging"
	"moviefinder/internal/render"
	"moviefinder/internal/search"
	"moviefinder/internal/shell"
	"moviefinder/internal/tmdb"
)

// backgroundHeader marks searches posted by the page script; plain form
// posts are redirected back to the page instead.
const backgroundHeader = "X-Requested-With"

type searchResponse struct {
	Results []tmdb.Movie `json:"results"`
	Error   string       `json:"error,omitempty"`
}

type genresResponse struct {
	Genres []tmdb.Genre `json:"genres"`
	Error  string       `json:"error,omitempty"`
}

// session resolves the caller's shell from the session cookie, issuing a new
// cookie when needed, and tags the request context with the session id.
func (s *Server) session(c *gin.Context) *shell.Shell {
	cookie, _ := c.Cookie(sessionCookie)
	sh, id := s.sessions.Get(cookie)
	if id != cookie {
		maxAge := int(s.cfg.SessionTTL().Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, maxAge, "/", "", false, true)
	}
	c.Request = c.Request.WithContext(logging.WithSessionID(c.Request.Context(), id))
	return sh
}

func (s *Server) handleIndex(c *gin.Context) {
	sh := s.session(c)
	state := sh.Mount(c.Request.Context())

	page := render.Page{
		Form:    render.NewSearchForm(state.Genres, state.Criteria, s.now()),
		Results: resultsView(state),
	}
	s.writeHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Page(buf, page)
	})
}

func (s *Server) handleSearch(c *gin.Context) {
	sh := s.session(c)
	var criteria search.Criteria
	if err := c.ShouldBind(&criteria); err != nil {
		_ = c.Error(err)
		s.writeHTML(c, http.StatusBadRequest, func(buf *bytes.Buffer) error {
			return s.renderer.Results(buf, render.Results{Error: shell.Message(err)})
		})
		return
	}

	state := sh.Search(c.Request.Context(), criteria)
	if c.GetHeader(backgroundHeader) == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Header(generationHeader, strconv.FormatUint(state.Generation, 10))
	s.writeHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Results(buf, resultsView(state))
	})
}

func (s *Server) handleAPIGenres(c *gin.Context) {
	genres, err := s.catalog.ListGenres(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, genresResponse{Genres: []tmdb.Genre{}, Error: shell.GenresMessage(err)})
		return
	}
	c.JSON(http.StatusOK, genresResponse{Genres: genres})
}

func (s *Server) handleAPISearch(c *gin.Context) {
	var criteria search.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	movies, err := s.dispatcher.Dispatch(c.Request.Context(), criteria)
	if err != nil {
		var validation *search.ValidationError
		if errors.As(err, &validation) {
			s.writeError(c, http.StatusBadRequest, err)
			return
		}
		s.writeError(c, http.StatusBadGateway, err)
		return
	}
	if len(movies) == 0 {
		c.JSON(http.StatusOK, searchResponse{Results: []tmdb.Movie{}, Error: shell.MessageNoMatches})
		return
	}
	c.JSON(http.StatusOK, searchResponse{Results: movies})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"catalog":  s.cfg.HasTMDBToken(),
	})
}

func (s *Server) writeError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, searchResponse{Results: []tmdb.Movie{}, Error: shell.Message(err)})
}

// writeHTML buffers the whole document; nothing is sent when fill fails.
func (s *Server) writeHTML(c *gin.Context, status int, fill func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "render failed", logging.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func resultsView(state shell.State) render.Results {
	return render.Results{
		Movies:     state.Results,
		Error:      state.Error,
		Loading:    state.Loading,
		Generation: state.Generation,
	}
}
