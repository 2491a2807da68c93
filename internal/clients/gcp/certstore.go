package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
)

// CertificateStore persists rendered certificate documents and hands out
// time-limited download URLs. Upload is idempotent on (tenant, certificate
// number): re-uploading replaces content, which supports regeneration without
// orphaning a number.
type CertificateStore interface {
	Upload(ctx context.Context, tenantID uuid.UUID, certificateNumber string, doc []byte) (string, error)
	SignedDownloadURL(ctx context.Context, locator string, ttl time.Duration) (string, error)
}

type certificateStore struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
}

func NewCertificateStore(log *logger.Logger) (CertificateStore, error) {
	serviceLog := log.With("service", "CertificateStore")

	bucketName := strings.TrimSpace(os.Getenv("CERTIFICATE_GCS_BUCKET_NAME"))
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var CERTIFICATE_GCS_BUCKET_NAME")
	}

	ctx := context.Background()
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &certificateStore{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucketName,
	}, nil
}

// ObjectKey is tenant-partitioned so certificate numbers from different
// tenants can never collide on a path.
func ObjectKey(tenantID uuid.UUID, certificateNumber string) string {
	return fmt.Sprintf("certificates/%s/%s.pdf", tenantID.String(), certificateNumber)
}

func (cs *certificateStore) Upload(ctx context.Context, tenantID uuid.UUID, certificateNumber string, doc []byte) (string, error) {
	key := ObjectKey(tenantID, certificateNumber)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := cs.storageClient.Bucket(cs.bucketName).Object(key).NewWriter(ctx)
	w.ContentType = "application/pdf"
	if _, err := io.Copy(w, bytes.NewReader(doc)); err != nil {
		_ = w.Close()
		return "", faults.StorageError("CertificateStore.Upload", err)
	}
	if err := w.Close(); err != nil {
		return "", faults.StorageError("CertificateStore.Upload", err)
	}
	return key, nil
}

func (cs *certificateStore) SignedDownloadURL(ctx context.Context, locator string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(locator) == "" {
		return "", faults.InvalidArgument("CertificateStore.SignedDownloadURL", "locator required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := cs.storageClient.Bucket(cs.bucketName).SignedURL(locator, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", faults.StorageError("CertificateStore.SignedDownloadURL", err)
	}
	return url, nil
}
