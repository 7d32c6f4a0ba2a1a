package service

import (
	"context"
	"strings"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_GetTag(t *testing.T) {
	t.Parallel()

	t.Run("attaches the live question count", func(t *testing.T) {
		t.Parallel()
		tags := noopTagRepo()
		tags.getByNameFn = func(_ context.Context, name string) (*models.Tag, error) {
			return &models.Tag{ID: 1, Name: name, UsageCount: 12}, nil
		}
		questions := noopQuestionRepo()
		questions.countByTagFn = func(_ context.Context, _ string) (int64, error) { return 12, nil }

		svc := NewTagService(tags, questions)
		tag, err := svc.GetTag(context.Background(), "  Go ")
		require.NoError(t, err)
		assert.Equal(t, "go", tag.Name, "lookup is normalized")
		assert.Equal(t, 12, tag.QuestionsCount)
	})

	t.Run("unknown tag is not found", func(t *testing.T) {
		t.Parallel()
		tags := noopTagRepo()
		tags.getByNameFn = func(_ context.Context, _ string) (*models.Tag, error) { return nil, nil }
		svc := NewTagService(tags, noopQuestionRepo())
		_, err := svc.GetTag(context.Background(), "nonexistent")
		assertNotFoundError(t, err)
	})
}

func TestTagService_CreateTag(t *testing.T) {
	t.Parallel()

	t.Run("rejects illegal names", func(t *testing.T) {
		t.Parallel()
		svc := NewTagService(noopTagRepo(), noopQuestionRepo())
		_, err := svc.CreateTag(context.Background(), "C#", "", 1)
		assertValidationError(t, err)
	})

	t.Run("rejects oversized descriptions", func(t *testing.T) {
		t.Parallel()
		svc := NewTagService(noopTagRepo(), noopQuestionRepo())
		_, err := svc.CreateTag(context.Background(), "csharp", strings.Repeat("x", 501), 1)
		assertValidationError(t, err)
	})

	t.Run("normalizes the name and records the creator", func(t *testing.T) {
		t.Parallel()
		tags := noopTagRepo()
		var created *models.Tag
		tags.createFn = func(_ context.Context, tag *models.Tag) error {
			created = tag
			return nil
		}
		svc := NewTagService(tags, noopQuestionRepo())
		_, err := svc.CreateTag(context.Background(), " Observability ", "Metrics, logs and traces", 7)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "observability", created.Name)
		require.NotNil(t, created.CreatedByID)
		assert.Equal(t, uint(7), *created.CreatedByID)
	})
}

func TestTagService_DeleteTag(t *testing.T) {
	t.Parallel()

	t.Run("tag in use cannot be deleted", func(t *testing.T) {
		t.Parallel()
		tags := noopTagRepo()
		tags.getByIDFn = func(_ context.Context, id uint) (*models.Tag, error) {
			return &models.Tag{ID: id, Name: "go", UsageCount: 3}, nil
		}
		svc := NewTagService(tags, noopQuestionRepo())
		err := svc.DeleteTag(context.Background(), 1)
		assertValidationError(t, err)
	})

	t.Run("unused tag deletes cleanly", func(t *testing.T) {
		t.Parallel()
		tags := noopTagRepo()
		tags.getByIDFn = func(_ context.Context, id uint) (*models.Tag, error) {
			return &models.Tag{ID: id, Name: "cobol", UsageCount: 0}, nil
		}
		var deleted uint
		tags.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewTagService(tags, noopQuestionRepo())
		err := svc.DeleteTag(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, uint(4), deleted)
	})
}

func TestTagService_SearchTags_EmptyQuery(t *testing.T) {
	t.Parallel()

	svc := NewTagService(noopTagRepo(), noopQuestionRepo())
	_, err := svc.SearchTags(context.Background(), "   ", 10)
	assertValidationError(t, err)
}

func TestTagService_PopularTags_ClampsLimit(t *testing.T) {
	t.Parallel()

	tags := noopTagRepo()
	var askedFor int
	tags.popularFn = func(_ context.Context, limit int) ([]*models.Tag, error) {
		askedFor = limit
		return nil, nil
	}
	svc := NewTagService(tags, noopQuestionRepo())

	_, err := svc.PopularTags(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, 50, askedFor)

	_, err = svc.PopularTags(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, askedFor)
}
