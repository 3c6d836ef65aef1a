// Package googleDriveApi stores generated strategy report workbooks in
// Google Drive so the dashboard can hand out shareable links instead of
// streaming xlsx bytes twice.
package googleDriveApi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

const reportLinkTemplate = "https://drive.google.com/file/d/%s/view"

type GoogleDriveApi struct {
	srv *drive.Service
	cfg *config.Config
}

func New(ctx context.Context, cfg *config.Config) *GoogleDriveApi {
	srv, err := drive.NewService(ctx, option.WithCredentialsFile(cfg.GoogleDrive.CredentialsFile))
	if err != nil {
		slog.Error("failed on drive.NewService")
		panic(err)
	}
	return &GoogleDriveApi{srv: srv, cfg: cfg}
}

// UploadFile stores one report workbook and opens it to anyone with the
// link. Returns the view link embedded in the report response.
func (a *GoogleDriveApi) UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.UploadFile"

	slog.Debug("UploadFile start", slog.String("rqID", rqID), slog.String("op", op), slog.String("report", filename))

	meta := &drive.File{
		Name:     filename,
		MimeType: mime.TypeByExtension(filepath.Ext(filename)),
	}

	stored, err := a.srv.Files.
		Create(meta).
		Media(reader).
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("failed uploading report to google drive", slog.String("rqID", rqID), slog.String("op", op), slog.String("report", filename), slog.String("err", err.Error()))
		return "", err
	}

	err = a.shareWithAnyone(stored.Id)
	if err != nil {
		slog.Error("failed sharing uploaded report", slog.String("rqID", rqID), slog.String("op", op), slog.String("report", filename), slog.String("err", err.Error()))
		return "", err
	}

	slog.Debug("UploadFile completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("fileID", stored.Id))

	return fmt.Sprintf(reportLinkTemplate, stored.Id), nil
}

func (a *GoogleDriveApi) shareWithAnyone(fileID string) error {
	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}
	_, err := a.srv.Permissions.Create(fileID, perm).Do()
	return err
}

// DeleteOldFiles drops reports older than the configured TTL. Reports are
// point-in-time snapshots, so a stale link going dead is expected; the
// cleanup job calls this on its own schedule.
func (a *GoogleDriveApi) DeleteOldFiles(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "GoogleDriveApi.DeleteOldFiles"

	slog.Debug("DeleteOldFiles start", slog.String("rqID", rqID), slog.String("op", op))

	listing, err := a.srv.Files.List().Fields("files(id, createdTime)").Do()
	if err != nil {
		slog.Error("failed listing stored reports", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	cutoff := time.Now().Add(-1 * a.cfg.GoogleDrive.FileTTL)
	deleted := 0
	for _, f := range listing.Files {
		createdTime, parseErr := time.Parse(time.RFC3339, f.CreatedTime)
		if parseErr != nil {
			slog.Error(
				"can't parse report created time",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.String("err", parseErr.Error()),
				slog.String("fileID", f.Id),
				slog.String("createdTime", f.CreatedTime),
			)
			continue
		}

		if !createdTime.Before(cutoff) {
			continue
		}

		err = a.srv.Files.Delete(f.Id).Do()
		if err != nil {
			slog.Error("failed deleting expired report", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("fileID", f.Id))
			continue
		}
		deleted++
	}

	err = a.srv.Files.EmptyTrash().Do()
	if err != nil {
		slog.Error("failed emptying drive trash", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	slog.Info("report cleanup done", slog.String("rqID", rqID), slog.String("op", op), slog.Int("deleted", deleted), slog.Int("kept", len(listing.Files)-deleted))

	return nil
}
