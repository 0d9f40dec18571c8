package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"energy-telemetry-pipeline/src/logger"
	"energy-telemetry-pipeline/src/types"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

type RecordReader interface {
	QueryBySite(ctx context.Context, siteID, start, end string) ([]types.EnergyRecord, error)
	QueryAnomalies(ctx context.Context, siteID string) ([]types.EnergyRecord, error)
	ScanSiteFlags(ctx context.Context) ([]types.SiteFlag, error)
}

// Service serves the read API behind an API Gateway HTTP API.
type Service struct {
	reader RecordReader
	log    *zap.Logger
}

func NewService(reader RecordReader, log *zap.Logger) *Service {
	return &Service{reader: reader, log: log}
}

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

type detail struct {
	Detail string `json:"detail"`
}

func (s *Service) HandleHTTP(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	log := logger.WithInvocation(ctx, s.log)
	routeKey, siteID := resolveRoute(req)

	switch routeKey {
	case "GET /":
		return respond(http.StatusOK, map[string]string{"message": "Welcome to the Energy Data API."}), nil

	case "GET /summary":
		flags, err := s.reader.ScanSiteFlags(ctx)
		if err != nil {
			log.Error("error scanning records", zap.Error(err))
			return respond(http.StatusInternalServerError, detail{"Internal Server Error"}), nil
		}
		return respond(http.StatusOK, Summarize(flags)), nil

	case "GET /records/{site_id}":
		start := req.QueryStringParameters["start_date"]
		end := req.QueryStringParameters["end_date"]
		log.Info("fetching records", zap.String("site_id", siteID), zap.String("start_date", start), zap.String("end_date", end))

		records, err := s.reader.QueryBySite(ctx, siteID, start, end)
		if err != nil {
			log.Error("error querying records", zap.String("site_id", siteID), zap.Error(err))
			return respond(http.StatusInternalServerError, detail{"Internal Server Error"}), nil
		}
		return respond(http.StatusOK, records), nil

	case "GET /anomalies/{site_id}":
		log.Info("fetching anomalies", zap.String("site_id", siteID))

		records, err := s.reader.QueryAnomalies(ctx, siteID)
		if err != nil {
			log.Error("error querying anomalies", zap.String("site_id", siteID), zap.Error(err))
			return respond(http.StatusInternalServerError, detail{"Internal Server Error"}), nil
		}
		return respond(http.StatusOK, records), nil

	default:
		return respond(http.StatusNotFound, detail{"Not Found"}), nil
	}
}

// resolveRoute prefers the route key API Gateway matched. Requests arriving on
// the $default route are matched on method and raw path instead.
func resolveRoute(req events.APIGatewayV2HTTPRequest) (string, string) {
	if req.RouteKey != "" && req.RouteKey != "$default" {
		return req.RouteKey, req.PathParameters["site_id"]
	}

	method := req.RequestContext.HTTP.Method
	segments := strings.Split(strings.Trim(req.RawPath, "/"), "/")

	switch {
	case len(segments) == 1 && segments[0] == "":
		return method + " /", ""
	case len(segments) == 1 && segments[0] == "summary":
		return method + " /summary", ""
	case len(segments) == 2 && segments[1] != "" && (segments[0] == "records" || segments[0] == "anomalies"):
		siteID, err := url.PathUnescape(segments[1])
		if err != nil {
			return "", ""
		}
		return method + " /" + segments[0] + "/{site_id}", siteID
	}

	return "", ""
}

func respond(status int, payload any) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"detail":"Internal Server Error"}`)
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}
