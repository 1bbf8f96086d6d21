package providers

import (
	"github.com/samber/do/v2"

	"github.com/readwellapp/readwell-server/internal/config"
	"github.com/readwellapp/readwell-server/internal/logger"
	"github.com/readwellapp/readwell-server/internal/objstore"
)

// ProvideStorage provides the upload blob storage, S3 when configured and
// the local filesystem otherwise.
func ProvideStorage(i do.Injector) (objstore.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.S3Enabled() {
		storage, err := objstore.NewS3(objstore.S3Config{
			Endpoint:       cfg.Storage.Endpoint,
			Bucket:         cfg.Storage.Bucket,
			Region:         cfg.Storage.Region,
			AccessKey:      cfg.Storage.AccessKey,
			SecretKey:      cfg.Storage.SecretKey,
			UseSSL:         cfg.Storage.UseSSL,
			ForcePathStyle: cfg.Storage.ForcePathStyle,
			PublicURL:      cfg.Storage.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		log.Info("S3 storage ready", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
		return storage, nil
	}

	storage, err := objstore.NewFS(cfg.Storage.UploadDir, "/uploads")
	if err != nil {
		return nil, err
	}
	log.Info("Filesystem storage ready", "dir", cfg.Storage.UploadDir)
	return storage, nil
}
