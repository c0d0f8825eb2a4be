package service

import (
	"strings"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

// ReviewService 菜品评价服务
type ReviewService struct {
	reviewRepo   repository.ReviewRepository
	menuItemRepo repository.MenuItemRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, menuItemRepo repository.MenuItemRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		menuItemRepo: menuItemRepo,
	}
}

// ReviewInput 创建/更新评价输入
type ReviewInput struct {
	UserID     uint
	MenuItemID uint
	OrderID    *uint
	Rating     int
	Comment    string
}

// ListByItem 获取某菜品的评价列表
func (s *ReviewService) ListByItem(menuItemID uint, page, pageSize int) ([]models.Review, int64, error) {
	filter := repository.ReviewListFilter{
		Page:       page,
		PageSize:   pageSize,
		MenuItemID: menuItemID,
		WithUser:   true,
	}
	return s.reviewRepo.List(filter)
}

// ListByUser 获取顾客自己的评价列表
func (s *ReviewService) ListByUser(userID uint, page, pageSize int) ([]models.Review, int64, error) {
	filter := repository.ReviewListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	}
	return s.reviewRepo.List(filter)
}

// ListAdmin 管理端评价列表
func (s *ReviewService) ListAdmin(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	filter.WithUser = true
	return s.reviewRepo.List(filter)
}

// Create 创建评价。同一顾客对同一菜品只能评价一次。
func (s *ReviewService) Create(input ReviewInput) (*models.Review, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrReviewRatingInvalid
	}
	item, err := s.menuItemRepo.GetByID(input.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}

	existing, err := s.reviewRepo.GetByUserAndItem(input.UserID, input.MenuItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		UserID:     input.UserID,
		MenuItemID: input.MenuItemID,
		OrderID:    input.OrderID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update 修改自己的评价
func (s *ReviewService) Update(userID, reviewID uint, rating int, comment string) (*models.Review, error) {
	if rating < constants.ReviewRatingMin || rating > constants.ReviewRatingMax {
		return nil, ErrReviewRatingInvalid
	}
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil || review.UserID != userID {
		return nil, ErrReviewNotFound
	}

	review.Rating = rating
	review.Comment = strings.TrimSpace(comment)
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete 删除自己的评价
func (s *ReviewService) Delete(userID, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil || review.UserID != userID {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(reviewID)
}

// AdminDelete 后台删除任意评价
func (s *ReviewService) AdminDelete(reviewID uint) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(reviewID)
}
