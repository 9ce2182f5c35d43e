package restapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharedcode/ordtree"
)

// BasePath is the prefix of every REST method.
const BasePath = "/api/v1"

// RequestIDHeader carries the id tagging each request, echoed back in the response.
const RequestIDHeader = "X-Request-ID"

// NewRouter creates a gin engine serving s under BasePath and the Prometheus metrics
// under /metrics. verify, if not nil, wraps every REST method (not /metrics).
func NewRouter(s *Server, verify func(gin.HandlerFunc) gin.HandlerFunc) (*gin.Engine, error) {
	r := NewRegistry()
	if err := s.Register(r); err != nil {
		return nil, err
	}

	router := gin.Default()
	router.Use(requestID)
	if err := r.Mount(router.Group(BasePath), verify); err != nil {
		return nil, err
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router, nil
}

func requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if _, err := ordtree.ParseUUID(id); err != nil {
		id = ordtree.NewUUID().String()
	}
	c.Header(RequestIDHeader, id)
	c.Next()
}
