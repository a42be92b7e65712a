package server

import (
	"errors"
	"net/http"

	"github.com/etched-id/etched-go/pkg/mint"
	"github.com/etched-id/etched-go/pkg/route"
	"github.com/etched-id/etched-go/pkg/sns"
	"github.com/etched-id/etched-go/pkg/verify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	messageInvalidBody   = "Invalid request body."
	messageUnavailable   = "Minting is not configured."
	messageUpstream      = "Upstream service unavailable."
	messageShortname     = "Shortname not found."
	messageInvalidLookup = "Invalid shortname."
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "network": s.network})
}

// POST /api/create
func (s *Server) create(c *gin.Context) {
	if s.mint == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: messageUnavailable})
		return
	}
	var request mint.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: messageInvalidBody})
		return
	}

	prepared, err := s.mint.Prepare(c.Request.Context(), request)
	if err != nil {
		var validationErr *mint.ValidationError
		status := http.StatusInternalServerError
		if errors.As(err, &validationErr) {
			status = http.StatusBadRequest
		} else {
			s.requestLogger(c).Error("mint preparation failed", zap.Error(err))
		}
		c.JSON(status, errorResponse{Error: mint.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, prepared)
}

// POST /api/verify
func (s *Server) verifyCreator(c *gin.Context) {
	if s.verify == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: messageUnavailable})
		return
	}
	var request verify.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: messageInvalidBody})
		return
	}

	prepared, err := s.verify.Prepare(c.Request.Context(), request)
	if err != nil {
		status := verifyStatus(err)
		if status == http.StatusInternalServerError {
			s.requestLogger(c).Error("verification preparation failed", zap.Error(err))
		}
		c.JSON(status, errorResponse{Error: verify.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, prepared)
}

func verifyStatus(err error) int {
	var validationErr *verify.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, verify.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, verify.ErrCreatorsFull):
		return http.StatusConflict
	case errors.Is(err, verify.ErrAddCreatorUnsupported),
		errors.Is(err, verify.ErrAlreadyVerified),
		errors.Is(err, verify.ErrNotAuthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// GET /api/route/*path
func (s *Server) resolveRoute(c *gin.Context) {
	decision, err := s.routes.Resolve(c.Request.Context(), route.SplitPath(c.Param("path")))
	if err != nil {
		s.requestLogger(c).Error("route resolution failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: messageUpstream})
		return
	}

	if decision.Redirect != nil && c.Query("follow") == "1" {
		c.Redirect(http.StatusTemporaryRedirect, "/api/route"+decision.Redirect.Destination+"?follow=1")
		return
	}

	status := http.StatusOK
	if decision.IsNotFound() {
		status = http.StatusNotFound
	}
	c.JSON(status, s.routeView(decision))
}

// GET /api/archive/:shortname
func (s *Server) archive(c *gin.Context) {
	ctx := c.Request.Context()
	shortname := sns.CanonicalShortname(c.Param("shortname"))

	owner, err := s.names.Resolve(ctx, shortname)
	switch {
	case errors.Is(err, sns.ErrInvalidShortname):
		c.JSON(http.StatusBadRequest, errorResponse{Error: messageInvalidLookup})
		return
	case errors.Is(err, sns.ErrDomainNotFound) || (err == nil && owner == ""):
		c.JSON(http.StatusNotFound, errorResponse{Error: messageShortname})
		return
	case err != nil:
		s.requestLogger(c).Error("shortname resolution failed", zap.String("shortname", shortname), zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: messageUpstream})
		return
	}

	binding := s.names.LookupAndVerify(ctx, sns.Query{Shortname: shortname})
	assets, err := s.archives.Archive(ctx, owner)
	if err != nil {
		s.requestLogger(c).Error("archive listing failed", zap.String("owner", owner), zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: messageUpstream})
		return
	}

	c.JSON(http.StatusOK, archiveResponse{
		Shortname:           shortname,
		Owner:               owner,
		ShortnameRegistered: binding.Verified,
		Items:               archiveItems(assets),
	})
}
