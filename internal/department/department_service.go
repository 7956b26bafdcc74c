package department

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

const Endpoint = "/api/v1/departments"

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context) ([]Department, error)
	Active(ctx context.Context) ([]Department, error)
	Search(ctx context.Context, c Criteria) (search.Result[Department], error)
	Create(ctx context.Context, d Department) (Department, string, error)
	Update(ctx context.Context, id int64, d Department) (Department, string, error)
	Delete(ctx context.Context, id int64) (string, error)
	Restore(ctx context.Context, id int64) (string, error)
	ExistsCode(ctx context.Context, code string) (bool, error)
	ExistsName(ctx context.Context, name string) (bool, error)
}

type service struct {
	api    apiclient.API
	logger *zap.Logger
}

func NewService(api apiclient.API, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{api: api, logger: l}
}

func (s *service) List(ctx context.Context) ([]Department, error) {
	env, err := s.api.Get(ctx, Endpoint)
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeData[[]Department](env)
}

func (s *service) Active(ctx context.Context) ([]Department, error) {
	env, err := s.api.Get(ctx, Endpoint+"/active")
	if err != nil {
		return nil, err
	}
	return apiclient.DecodeData[[]Department](env)
}

func (s *service) Search(ctx context.Context, c Criteria) (search.Result[Department], error) {
	s.logger.Debug("search departments",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Int("page", c.Page.Page),
		zap.Int("size", c.Size),
	)

	env, err := s.api.Post(ctx, Endpoint+"/search", c)
	if err != nil {
		return search.Result[Department]{}, err
	}
	items, err := response.DecodeItems[Department](env.Data)
	if err != nil {
		return search.Result[Department]{}, fmt.Errorf("decode department page: %w", err)
	}
	return search.Result[Department]{Items: items, Pagination: env.Pagination}, nil
}

func (s *service) Create(ctx context.Context, d Department) (Department, string, error) {
	env, err := s.api.Post(ctx, Endpoint, d)
	if err != nil {
		return Department{}, "", err
	}
	out, err := apiclient.DecodeData[Department](env)
	return out, env.Message, err
}

func (s *service) Update(ctx context.Context, id int64, d Department) (Department, string, error) {
	env, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", Endpoint, id), d)
	if err != nil {
		return Department{}, "", err
	}
	out, err := apiclient.DecodeData[Department](env)
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
	return s.exists(ctx, "code", code)
}

func (s *service) ExistsName(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "name", name)
}

func (s *service) exists(ctx context.Context, field, value string) (bool, error) {
	env, err := s.api.Get(ctx, fmt.Sprintf("%s/exists/%s/%s", Endpoint, field, url.PathEscape(value)))
	if err != nil {
		return false, err
	}
	return apiclient.DecodeData[bool](env)
}
