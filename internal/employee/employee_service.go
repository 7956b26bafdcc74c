package employee

import (
	"context"
	"fmt"
	"net/url"

	"go-hris-admin/internal/apiclient"
	"go-hris-admin/internal/search"
	"go-hris-admin/internal/shared/contextutil"
	"go-hris-admin/internal/shared/response"

	"go.uber.org/zap"
)

const (
	Endpoint      = "/api/v1/employees"
	ImageEndpoint = "/api/v1/images/download"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]Employee, error)
	Active(ctx context.Context) ([]Employee, error)
	Search(ctx context.Context, c Criteria) (search.Result[Employee], error)
	Create(ctx context.Context, e Employee) (Employee, string, error)
	Update(ctx context.Context, id int64, e Employee) (Employee, string, error)
	Delete(ctx context.Context, id int64) (string, error)
	Restore(ctx context.Context, id int64) (string, error)
	ExistsCode(ctx context.Context, code string) (bool, error)
	UploadImage(ctx context.Context, id int64, img Image) (string, error)
	RemoveImage(ctx context.Context, id int64) error
	DownloadImage(ctx context.Context, filename string) ([]byte, string, error)
	ImageURL(filename string) string
}

type service struct {
	api    apiclient.API
	logger *zap.Logger
}

func NewService(api apiclient.API, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{api: api, logger: l}
}

func (s *service) List(ctx context.Context) ([]Employee, error) {
	env, err := s.api.Get(ctx, Endpoint)
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeData[[]Employee](env)
}

func (s *service) Active(ctx context.Context) ([]Employee, error) {
	env, err := s.api.Get(ctx, Endpoint+"/active")
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeData[[]Employee](env)
}

func (s *service) Search(ctx context.Context, c Criteria) (search.Result[Employee], error) {
	s.logger.Debug("search employees",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Int("page", c.Page.Page),
		zap.Int("size", c.Size),
	)

	env, err := s.api.Post(ctx, Endpoint+"/search", c)
	if err != nil {
		return search.Result[Employee]{}, err
	}
	items, err := response.DecodeItems[Employee](env.Data)
	if err != nil {
		return search.Result[Employee]{}, fmt.Errorf("decode employee page: %w", err)
	}
	return search.Result[Employee]{Items: items, Pagination: env.Pagination}, nil
}

func (s *service) Create(ctx context.Context, e Employee) (Employee, string, error) {
	env, err := s.api.Post(ctx, Endpoint, e)
	if err != nil {
		return Employee{}, "", err
	}
	out, err := apiclient.DecodeData[Employee](env)
	return out, env.Message, err
}

func (s *service) Update(ctx context.Context, id int64, e Employee) (Employee, string, error) {
	env, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", Endpoint, id), e)
	if err != nil {
		return Employee{}, "", err
	}
	out, err := apiclient.DecodeData[Employee](env)
	return out, env.Message, err
}

func (s *service) Delete(ctx context.Context, id int64) (string, error) {
	env, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", Endpoint, id))
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (s *service) Restore(ctx context.Context, id int64) (string, error) {
	env, err := s.api.Patch(ctx, fmt.Sprintf("%s/%d/restore", Endpoint, id), nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (s *service) ExistsCode(ctx context.Context, code string) (bool, error) {
	env, err := s.api.Get(ctx, fmt.Sprintf("%s/exists/code/%s", Endpoint, url.PathEscape(code)))
	if err != nil {
		return false, err
	}
	return apiclient.DecodeData[bool](env)
}

// UploadImage replaces the stored photo and returns the new file name.
func (s *service) UploadImage(ctx context.Context, id int64, img Image) (string, error) {
	env, err := s.api.Upload(ctx, fmt.Sprintf("%s/%d/image", Endpoint, id), "file", img.Filename, img.ContentType, img.Content)
	if err != nil {
		return "", err
	}
	return apiclient.DecodeData[string](env)
}

func (s *service) RemoveImage(ctx context.Context, id int64) error {
	_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d/image", Endpoint, id))
	return err
}

func (s *service) DownloadImage(ctx context.Context, filename string) ([]byte, string, error) {
	return s.api.Fetch(ctx, ImageEndpoint+"/"+url.PathEscape(filename))
}

// ImageURL is the absolute preview URL of a stored image, or "" when the
// employee has none.
func (s *service) ImageURL(filename string) string {
	if filename == "" {
		return ""
	}
	return s.api.BaseURL() + ImageEndpoint + "/" + url.PathEscape(filename)
}
