package service

import (
	"strings"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"

	"github.com/shopspring/decimal"
)

// MenuService 菜品业务服务
type MenuService struct {
	repo       repository.MenuItemRepository
	reviewRepo repository.ReviewRepository
}

// NewMenuService 创建菜品服务
func NewMenuService(repo repository.MenuItemRepository, reviewRepo repository.ReviewRepository) *MenuService {
	return &MenuService{repo: repo, reviewRepo: reviewRepo}
}

// MenuItemUpsertInput 创建/更新菜品输入
type MenuItemUpsertInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	Price       decimal.Decimal
	Images      []string
	Tags        []string
	Status      string
	SortOrder   int
}

// ListPublic 获取对外菜品列表（仅在售）
func (s *MenuService) ListPublic(categoryID, search, tag string, page, pageSize int) ([]models.MenuItem, int64, error) {
	filter := repository.MenuItemListFilter{
		Page:          page,
		PageSize:      pageSize,
		CategoryID:    categoryID,
		Search:        search,
		Tag:           tag,
		OnlyAvailable: true,
		WithCategory:  true,
	}
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		s.attachRatings(&items[i])
	}
	return items, total, nil
}

// GetPublicBySlug 获取对外菜品详情
func (s *MenuService) GetPublicBySlug(slug string) (*models.MenuItem, error) {
	item, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsAvailable() {
		return nil, ErrMenuItemNotFound
	}
	s.attachRatings(item)
	return item, nil
}

// ListAdmin 获取后台菜品列表
func (s *MenuService) ListAdmin(categoryID, search string, page, pageSize int) ([]models.MenuItem, int64, error) {
	filter := repository.MenuItemListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       search,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// GetAdminByID 获取后台菜品详情
func (s *MenuService) GetAdminByID(id uint) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// Create 创建菜品
func (s *MenuService) Create(input MenuItemUpsertInput) (*models.MenuItem, error) {
	if err := normalizeMenuItemInput(&input); err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrMenuItemSlugTaken
	}

	item := models.MenuItem{
		CategoryID:  input.CategoryID,
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Price:       models.NewMoneyFromDecimal(input.Price),
		Images:      models.StringArray(input.Images),
		Tags:        models.StringArray(input.Tags),
		Status:      input.Status,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 更新菜品
func (s *MenuService) Update(id uint, input MenuItemUpsertInput) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	if err := normalizeMenuItemInput(&input); err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(input.Slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrMenuItemSlugTaken
	}

	item.CategoryID = input.CategoryID
	item.Slug = input.Slug
	item.Name = input.Name
	item.Description = input.Description
	item.Price = models.NewMoneyFromDecimal(input.Price)
	item.Images = models.StringArray(input.Images)
	item.Tags = models.StringArray(input.Tags)
	item.Status = input.Status
	item.SortOrder = input.SortOrder

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetStatus 上下架菜品
func (s *MenuService) SetStatus(id uint, status string) (*models.MenuItem, error) {
	if status != constants.MenuItemStatusAvailable && status != constants.MenuItemStatusUnavailable {
		return nil, ErrMenuItemInvalid
	}
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	item.Status = status
	if err := s.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除菜品
func (s *MenuService) Delete(id uint) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}
	return s.repo.Delete(id)
}

func (s *MenuService) attachRatings(item *models.MenuItem) {
	if s.reviewRepo == nil || item == nil {
		return
	}
	avg, count, err := s.reviewRepo.AggregateByItem(item.ID)
	if err != nil {
		return
	}
	item.RatingAvg = avg
	item.RatingCount = count
}

func normalizeMenuItemInput(input *MenuItemUpsertInput) error {
	input.Slug = strings.TrimSpace(input.Slug)
	input.Name = strings.TrimSpace(input.Name)
	if input.Slug == "" || input.Name == "" || input.CategoryID == 0 {
		return ErrMenuItemInvalid
	}
	input.Price = input.Price.Round(2)
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return ErrMenuItemPriceInvalid
	}
	if input.Status == "" {
		input.Status = constants.MenuItemStatusAvailable
	}
	if input.Status != constants.MenuItemStatusAvailable && input.Status != constants.MenuItemStatusUnavailable {
		return ErrMenuItemInvalid
	}
	return nil
}
