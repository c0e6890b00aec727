package classify

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/dotcommander/mishap/internal/models"
)

// FromError maps err into the taxonomy. Errors that already carry a kind
// keep it; anything unrecognised becomes Unknown with the error text.
//
// SQLite detection relies on modernc.org/sqlite error message strings.
func FromError(err error) models.ErrorKind {
	if err == nil {
		return nil
	}

	var carrier models.KindCarrier
	if errors.As(err, &carrier) && carrier.ErrorKind() != nil {
		return carrier.ErrorKind()
	}

	switch {
	case errors.Is(err, context.Canceled):
		return models.OperationCancelled{}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return models.Timeout{}
	case errors.Is(err, syscall.ENOSPC):
		return models.DiskSpaceInsufficient{}
	case errors.Is(err, os.ErrNotExist):
		return models.FileNotFound{}
	case errors.Is(err, os.ErrPermission):
		return models.FilePermissionDenied{}
	case errors.Is(err, os.ErrExist):
		return models.FileAlreadyExists{}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Op == "parse" {
		return models.InvalidURL{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return models.Timeout{}
		}
		return models.NetworkUnavailable{}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "database disk image is malformed"),
		strings.Contains(msg, "file is not a database"):
		return models.DatabaseCorrupted{}
	case strings.Contains(msg, "FOREIGN KEY constraint"):
		return models.RelationshipIntegrity{}
	case strings.Contains(msg, "UNIQUE constraint"):
		return models.DuplicateEntry{Item: uniqueColumn(msg)}
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "SQLITE_BUSY"):
		return models.DatabaseSaveFailed{}
	}

	return models.Unknown{Detail: msg}
}

// uniqueColumn extracts "table.column" from a SQLite UNIQUE violation.
func uniqueColumn(msg string) string {
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return "entry"
	}
	col := strings.TrimSpace(msg[i+len(marker):])
	if j := strings.IndexAny(col, " ,)"); j > 0 {
		col = col[:j]
	}
	if col == "" {
		return "entry"
	}
	return col
}
