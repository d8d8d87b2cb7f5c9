package runner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"augur/internal/oracle"
	"augur/internal/report"
	"augur/internal/util"
)

func (r *Runner) serverVersion(ctx context.Context) string {
	qctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.exec.QueryRowContext(qctx, "SELECT VERSION()")
	var version string
	if err := row.Scan(&version); err != nil {
		return ""
	}
	return version
}

func (r *Runner) handleResult(ctx context.Context, result oracle.Result) {
	caseData, err := r.reporter.NewCase()
	if err != nil {
		util.Errorf("case dir allocation failed: %v", err)
		return
	}

	details := result.Details
	if details == nil {
		details = map[string]any{}
	}
	if version := r.serverVersion(ctx); version != "" {
		details["server_version"] = version
	}
	if r.cfg.RunInfo != nil && r.cfg.RunInfo.CI {
		details["ci_run"] = r.cfg.RunInfo.RunID
		details["ci_commit"] = r.cfg.RunInfo.Commit
	}
	errorReason := ""
	if reason, ok := details["error_reason"].(string); ok {
		errorReason = reason
	}

	summary := report.Summary{
		Oracle:      result.Oracle,
		SQL:         result.SQL,
		Expected:    result.Expected,
		Actual:      result.Actual,
		ErrorReason: errorReason,
		Seed:        r.gen.Seed,
		Details:     details,
		Timestamp:   time.Now().Format(time.RFC3339),
		CaseID:      caseData.ID,
		CaseDir:     filepath.Base(caseData.Dir),
	}
	if result.Err != nil {
		summary.Error = result.Err.Error()
	}

	_ = r.reporter.WriteSQL(caseData, "case.sql", result.SQL)
	if len(r.insertLog) > 0 {
		_ = r.reporter.WriteSQL(caseData, "inserts.sql", r.insertLog)
	}
	if trace, ok := details["trace"].(string); ok && strings.TrimSpace(trace) != "" {
		_ = r.reporter.WriteText(caseData, "trace.txt", trace)
	}
	_ = r.reporter.DumpSchema(ctx, caseData, r.exec, r.state)
	_ = r.reporter.DumpData(ctx, caseData, r.exec, r.state)

	if r.cfg.Storage.CloudEnabled() {
		name, codec, archiveErr := r.reporter.WriteCaseArchive(caseData)
		if archiveErr != nil {
			util.Warnf("case archive failed dir=%s err=%v", caseData.Dir, archiveErr)
		} else {
			summary.ArchiveName = name
			summary.ArchiveCodec = codec
		}
	}
	_ = r.reporter.WriteSummary(caseData, summary)

	if r.uploader.Enabled() {
		location, uploadErr := r.uploader.UploadDir(ctx, caseData.Dir)
		if uploadErr != nil {
			util.Warnf("case upload failed dir=%s err=%v", caseData.Dir, uploadErr)
		} else if location != "" {
			summary.UploadLocation = location
			_ = r.reporter.WriteSummary(caseData, summary)
		}
	}

	util.Errorf("mismatch captured oracle=%s dir=%s expected=%s actual=%s",
		result.Oracle, caseData.Dir, result.Expected, result.Actual)
}
