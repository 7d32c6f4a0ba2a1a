package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	QuestionKeyPrefix = "question:%d"

	questionsListVersionKey = "questions:list:ver"
	tagsVersionKey          = "tags:ver"
)

const (
	UserTTL          = 5 * time.Minute
	QuestionTTL      = 10 * time.Minute
	QuestionsListTTL = 1 * time.Minute
	TagTTL           = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func QuestionKey(questionID uint) string {
	return fmt.Sprintf(QuestionKeyPrefix, questionID)
}

// QuestionsListKey builds a versioned key for the anonymous question listing.
// Invalidation bumps the version; stale generations simply age out via TTL.
func QuestionsListKey(ctx context.Context, sort string, limit, offset int) string {
	return fmt.Sprintf("questions:list:v%d:%s:%d:%d", version(ctx, questionsListVersionKey), sort, limit, offset)
}

// PopularTagsKey builds a versioned key for the popular-tags listing.
func PopularTagsKey(ctx context.Context, limit int) string {
	return fmt.Sprintf("tags:popular:v%d:%d", version(ctx, tagsVersionKey), limit)
}

func version(ctx context.Context, key string) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateQuestionsList(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, questionsListVersionKey)
	}
}

func InvalidateTagsList(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, tagsVersionKey)
	}
}
