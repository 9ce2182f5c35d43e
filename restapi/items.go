// Package restapi serves an ordered string to string container over HTTP with gin.
package restapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharedcode/ordtree"
	"github.com/sharedcode/ordtree/cel"
)

// Server holds the container the REST methods operate on.
type Server struct {
	store *ordtree.Synchronized[string, string]
}

// NewServer creates a Server over store.
func NewServer(store *ordtree.Synchronized[string, string]) *Server {
	metricItems.Set(float64(store.Size()))
	return &Server{store: store}
}

// Register adds the Server's REST methods to r.
func (s *Server) Register(r *Registry) error {
	for _, m := range []RestMethod{
		{GET, "/items", s.GetItems},
		{GET_ONE, "/items/:key", s.GetItem},
		{PUT, "/items/:key", s.PutItem},
		{DELETE, "/items/:key", s.DeleteItem},
		{DELETE, "/items", s.ClearItems},
		{GET, "/ranks", s.GetRanks},
		{GET_ONE, "/ranks/:index", s.GetRank},
		{POST, "/bulk", s.BulkLoad},
		{GET, "/stats", s.GetStats},
	} {
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

type itemBody struct {
	Value *string `json:"value"`
}

func (s *Server) mutated() {
	metricItems.Set(float64(s.store.Size()))
}

// GetItem responds with the entry stored under the key path parameter.
func (s *Server) GetItem(c *gin.Context) {
	metricRequests.WithLabelValues("get").Inc()
	key := c.Param("key")
	v, ok := s.store.Get(key)
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "key not found", "key": key})
		return
	}
	c.IndentedJSON(http.StatusOK, ordtree.KeyValuePair[string, string]{Key: key, Value: v})
}

// PutItem sets the value of the key path parameter from a {"value": ...} body.
func (s *Server) PutItem(c *gin.Context) {
	metricRequests.WithLabelValues("set").Inc()
	var body itemBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Value == nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "body must be a JSON object with a string \"value\""})
		return
	}
	key := c.Param("key")
	s.store.Set(key, *body.Value)
	s.mutated()
	c.IndentedJSON(http.StatusOK, ordtree.KeyValuePair[string, string]{Key: key, Value: *body.Value})
}

// DeleteItem removes the entry stored under the key path parameter, missing keys are not an error.
func (s *Server) DeleteItem(c *gin.Context) {
	metricRequests.WithLabelValues("delete").Inc()
	deleted := s.store.Remove(c.Param("key"))
	s.mutated()
	c.IndentedJSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ClearItems removes every entry.
func (s *Server) ClearItems(c *gin.Context) {
	metricRequests.WithLabelValues("clear").Inc()
	s.store.Clear()
	s.mutated()
	c.Status(http.StatusNoContent)
}

// GetItems responds with the entries within the bounds given as query parameters (min,
// minInclusive, minExclusive, max, maxInclusive, maxExclusive), optionally narrowed by a
// CEL filter over key & value. valuesOnly=true drops the keys.
func (s *Server) GetItems(c *gin.Context) {
	metricRequests.WithLabelValues("range").Inc()
	valuesOnly, err := queryBool(c, "valuesOnly")
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	bounds := boundsFromQuery(c)

	expr := c.Query("filter")
	if expr == "" {
		if valuesOnly {
			c.IndentedJSON(http.StatusOK, s.store.ToValues(bounds))
		} else {
			c.IndentedJSON(http.StatusOK, s.store.ToArray(bounds))
		}
		return
	}

	f, err := cel.NewFilter(expr)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	pairs, err := cel.Apply(f, s.store.ToArray(bounds))
	if err != nil {
		slog.Warn("filter evaluation failed", "filter", expr, "error", err)
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !valuesOnly {
		c.IndentedJSON(http.StatusOK, pairs)
		return
	}
	values := make([]string, len(pairs))
	for i := range pairs {
		values[i] = pairs[i].Value
	}
	c.IndentedJSON(http.StatusOK, values)
}

// GetRank responds with the entry value at the index path parameter.
func (s *Server) GetRank(c *gin.Context) {
	metricRequests.WithLabelValues("rank").Inc()
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "index must be an integer"})
		return
	}
	v, ok := s.store.GetByIndex(index)
	if !ok {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "index out of range", "index": index})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"index": index, "value": v})
}

// GetRanks responds with count entries starting at rank start (query parameters, by
// default the whole container).
func (s *Server) GetRanks(c *gin.Context) {
	metricRequests.WithLabelValues("ranks").Inc()
	start, err := queryInt(c, "start", 0)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	count, err := queryInt(c, "count", s.store.Size())
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	valuesOnly, err := queryBool(c, "valuesOnly")
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if valuesOnly {
		c.IndentedJSON(http.StatusOK, s.store.ToValuesByIndex(start, count))
		return
	}
	c.IndentedJSON(http.StatusOK, s.store.ToArrayByIndex(start, count))
}

// BulkLoad loads a JSON array of {"key", "value"} objects, sorted by key, into the empty container.
func (s *Server) BulkLoad(c *gin.Context) {
	metricRequests.WithLabelValues("bulk").Inc()
	var items []ordtree.KeyValuePair[string, string]
	if err := c.ShouldBindJSON(&items); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "body must be a JSON array of key/value objects"})
		return
	}
	err := s.store.BulkLoad(items)
	s.mutated()
	switch {
	case err == nil:
		c.IndentedJSON(http.StatusOK, gin.H{"size": s.store.Size()})
	case errors.Is(err, ordtree.ErrNotEmpty):
		c.IndentedJSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, ordtree.ErrNotSorted):
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		slog.Error("bulk load failed", "error", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

// GetStats responds with the container statistics.
func (s *Server) GetStats(c *gin.Context) {
	metricRequests.WithLabelValues("stats").Inc()
	c.IndentedJSON(http.StatusOK, s.store.GetStats())
}

// boundsFromQuery returns nil when no bound parameter is present.
func boundsFromQuery(c *gin.Context) *ordtree.Bounds[string] {
	var b ordtree.Bounds[string]
	set := false
	for name, field := range map[string]**string{
		"min":          &b.Min,
		"minInclusive": &b.MinInclusive,
		"minExclusive": &b.MinExclusive,
		"max":          &b.Max,
		"maxInclusive": &b.MaxInclusive,
		"maxExclusive": &b.MaxExclusive,
	} {
		if v, ok := c.GetQuery(name); ok {
			*field = ordtree.Key(v)
			set = true
		}
	}
	if !set {
		return nil
	}
	return &b
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	v, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return i, nil
}

func queryBool(c *gin.Context, name string) (bool, error) {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(name + " must be a boolean")
	}
	return b, nil
}
