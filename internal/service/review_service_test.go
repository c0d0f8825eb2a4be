package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/repository"
)

func setupReviewServiceTest(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:review_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.MenuItem{}, &models.Review{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db

	reviewRepo := repository.NewReviewRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	return NewReviewService(reviewRepo, menuItemRepo), db
}

func TestReviewCreateOncePerItem(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	user := createTestCustomer(t, db, 201)
	item := createTestMenuItem(t, db, "molten-chocolate-cake", "32", constants.MenuItemStatusAvailable)

	review, err := svc.Create(ReviewInput{
		UserID:     user.ID,
		MenuItemID: item.ID,
		Rating:     5,
		Comment:    "  外脆内流心，很棒  ",
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.Comment != "外脆内流心，很棒" {
		t.Fatalf("expected trimmed comment, got %q", review.Comment)
	}

	// 同一顾客同一菜品只能评价一次
	_, err = svc.Create(ReviewInput{
		UserID:     user.ID,
		MenuItemID: item.ID,
		Rating:     4,
	})
	if !errors.Is(err, ErrReviewExists) {
		t.Fatalf("expected duplicate review rejected, got: %v", err)
	}
}

func TestReviewCreateValidation(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	user := createTestCustomer(t, db, 202)
	item := createTestMenuItem(t, db, "caesar-salad-review", "28", constants.MenuItemStatusAvailable)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Create(ReviewInput{UserID: user.ID, MenuItemID: item.ID, Rating: rating}); !errors.Is(err, ErrReviewRatingInvalid) {
			t.Fatalf("rating %d: expected invalid rating, got: %v", rating, err)
		}
	}
	if _, err := svc.Create(ReviewInput{UserID: user.ID, MenuItemID: 9999, Rating: 5}); !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("expected menu item not found, got: %v", err)
	}
}

func TestReviewUpdateAndDeleteOwnership(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	owner := createTestCustomer(t, db, 203)
	other := createTestCustomer(t, db, 204)
	item := createTestMenuItem(t, db, "hand-drip-coffee-review", "26", constants.MenuItemStatusAvailable)

	review, err := svc.Create(ReviewInput{UserID: owner.ID, MenuItemID: item.ID, Rating: 3, Comment: "一般"})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}

	if _, err := svc.Update(other.ID, review.ID, 1, "差评"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected other user update rejected, got: %v", err)
	}
	updated, err := svc.Update(owner.ID, review.ID, 4, "回购后好感上升")
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Rating != 4 {
		t.Fatalf("unexpected rating: %d", updated.Rating)
	}

	if err := svc.Delete(other.ID, review.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected other user delete rejected, got: %v", err)
	}
	if err := svc.Delete(owner.ID, review.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.AdminDelete(review.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected deleted review gone, got: %v", err)
	}
}

func TestReviewListByItem(t *testing.T) {
	svc, db := setupReviewServiceTest(t)
	item := createTestMenuItem(t, db, "mango-pomelo-sago-review", "22", constants.MenuItemStatusAvailable)
	otherItem := createTestMenuItem(t, db, "fresh-lemon-tea-review", "16", constants.MenuItemStatusAvailable)
	for i := uint(1); i <= 3; i++ {
		user := createTestCustomer(t, db, 210+i)
		if _, err := svc.Create(ReviewInput{UserID: user.ID, MenuItemID: item.ID, Rating: int(i) + 2}); err != nil {
			t.Fatalf("create review %d failed: %v", i, err)
		}
	}
	outsider := createTestCustomer(t, db, 220)
	if _, err := svc.Create(ReviewInput{UserID: outsider.ID, MenuItemID: otherItem.ID, Rating: 5}); err != nil {
		t.Fatalf("create outside review failed: %v", err)
	}

	reviews, total, err := svc.ListByItem(item.ID, 1, 10)
	if err != nil {
		t.Fatalf("list by item failed: %v", err)
	}
	if total != 3 || len(reviews) != 3 {
		t.Fatalf("list by item want 3 got total=%d len=%d", total, len(reviews))
	}
}
