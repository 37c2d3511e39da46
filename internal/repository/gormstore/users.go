package gormstore

import (
	"context"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return translate(s.write(ctx).Create(u).Error, "user")
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	return translate(s.write(ctx).Save(u).Error, "user")
}

func (s *Store) DeleteUser(ctx context.Context, id uint64) error {
	return translate(s.db.WithContext(ctx).Delete(&domain.User{}, id).Error, "user")
}

func (s *Store) UserByID(ctx context.Context, id uint64) (domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	return u, translate(err, "user")
}

func (s *Store) UserByLoginID(ctx context.Context, loginID string) (domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).Where("login_id = ?", loginID).First(&u).Error
	return u, translate(err, "user")
}
