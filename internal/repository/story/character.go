package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// CharacterRepository 角色仓库接口（供 service 层依赖）
type CharacterRepository interface {
	CreateMany(ctx context.Context, characters []*story.Character) error
	FindByRunID(ctx context.Context, runID string) ([]*story.Character, error)
	DeleteByRunID(ctx context.Context, runID string) error
}

// CharacterRepo 角色仓库实现
type CharacterRepo struct {
	coll *mongo.Collection
}

// NewCharacterRepo 创建角色仓库
func NewCharacterRepo(db *mongo.Database) *CharacterRepo {
	var c story.Character
	return &CharacterRepo{coll: db.Collection(c.Collection())}
}

// CreateMany 批量创建角色
func (r *CharacterRepo) CreateMany(ctx context.Context, characters []*story.Character) error {
	if len(characters) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(characters))
	for i, character := range characters {
		character.CreatedAt = now
		character.UpdatedAt = now
		docs[i] = character
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByRunID 查询运行的所有角色（按出现次数倒序）
func (r *CharacterRepo) FindByRunID(ctx context.Context, runID string) ([]*story.Character, error) {
	filter := bson.M{"run_id": runID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"mentions": -1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var characters []*story.Character
	if err := cur.All(ctx, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}

// DeleteByRunID 根据运行ID软删除所有角色
func (r *CharacterRepo) DeleteByRunID(ctx context.Context, runID string) error {
	_, err := r.coll.UpdateMany(
		ctx,
		bson.M{"run_id": runID, "deleted_at": nil},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}
