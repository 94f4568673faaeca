package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const fixtureContentType = "application/yaml"

// FixtureRepo хранит YAML-фикстуры каталога в бакете MinIO.
type FixtureRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewFixtureRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *FixtureRepo {
	return &FixtureRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Download читает объект целиком.
func (f *FixtureRepo) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := f.mc.GetObject(ctx, f.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// Upload загружает фикстуру и возвращает ключ объекта.
func (f *FixtureRepo) Upload(ctx context.Context, key string, data []byte) (string, error) {
	info, err := f.mc.PutObject(ctx, f.cfg.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: fixtureContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (f *FixtureRepo) Delete(ctx context.Context, key string) error {
	if err := f.mc.RemoveObject(ctx, f.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
