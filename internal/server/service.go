package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/common"
	"github.com/joseph-ayodele/followups-tracker/internal/entity"
	"github.com/joseph-ayodele/followups-tracker/internal/export"
	"github.com/joseph-ayodele/followups-tracker/internal/pipeline"
)

// MaxReportLength caps the text accepted by Extract.
const MaxReportLength = 100_000

type FollowupService struct {
	proc     *pipeline.Processor
	exporter *export.Service
	logger   *slog.Logger
}

var _ FollowupServer = (*FollowupService)(nil)

func NewFollowupService(proc *pipeline.Processor, exporter *export.Service, logger *slog.Logger) *FollowupService {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	return &FollowupService{proc: proc, exporter: exporter, logger: logger}
}

// Extract classifies {text, source}. source defaults to manual.
func (s *FollowupService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	text := req.GetFields()["text"].GetStringValue()
	v := common.NewValidator().Field("text", text, common.MaxLength(MaxReportLength))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	source := constants.SourceManual
	if raw := strings.TrimSpace(req.GetFields()["source"].GetStringValue()); raw != "" {
		parsed, ok := constants.ParseReportSource(raw)
		if !ok {
			return nil, common.InvalidArgumentErrorf("unknown source %q", raw)
		}
		source = parsed
	}

	res, err := s.proc.ProcessText(ctx, text, source)
	if err != nil {
		s.logger.Error("extract failed", "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.ToStatus(err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"report_id":          res.Report.ID.String(),
		"source":             string(res.Report.Source),
		"normalized_text":    res.Normalized,
		"needs_manual_entry": res.NeedsManualEntry,
		"tasks": listOf(res.Tasks, func(r entity.TaskRecord) map[string]any {
			return taskRecordValue(r, true)
		}),
		"warnings": stringList(res.Warnings),
	})
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

// SaveHistory stores the selected records of {records[]}.
func (s *FollowupService) SaveHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rows, err := rowsFromRequest(req)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	recs := make([]entity.HistoricalRecord, 0, len(rows))
	for _, r := range rows {
		if r.Selected {
			recs = append(recs, r.Record.ToHistorical())
		}
	}

	merged, err := s.proc.Save(ctx, recs)
	if err != nil {
		s.logger.Error("save history failed", "request_id", common.RequestIDFromContext(ctx), "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := structpb.NewStruct(map[string]any{
		"saved": len(recs),
		"total": len(merged),
	})
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

func (s *FollowupService) ListHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	hist, err := s.proc.History(ctx)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	out, err := structpb.NewStruct(map[string]any{
		fieldRecords: listOf(hist, historicalValue),
	})
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

func (s *FollowupService) ExportXLSX(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	rows, err := rowsFromRequest(req)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	b, err := s.exporter.XLSX(ctx, rows)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "error", err)
		return nil, common.InternalError(err.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *FollowupService) ExportPDF(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	rows, err := rowsFromRequest(req)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	b, err := s.exporter.PDF(ctx, rows)
	if err != nil {
		s.logger.Error("export.pdf.failed", "error", err)
		return nil, common.InternalError(err.Error())
	}
	return wrapperspb.Bytes(b), nil
}
