package story

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/story"
)

// SourceRepository 源文本仓库接口（供 service 层依赖）
type SourceRepository interface {
	Create(ctx context.Context, src *story.Source) error
	FindByID(ctx context.Context, id string) (*story.Source, error)
	FindByMD5(ctx context.Context, md5 string) (*story.Source, error)
	FindAll(ctx context.Context, limit, offset int) ([]*story.Source, int64, error)
	Delete(ctx context.Context, id string) error
}

// SourceRepo 源文本仓库实现
type SourceRepo struct {
	coll *mongo.Collection
}

// NewSourceRepo 创建源文本仓库
func NewSourceRepo(db *mongo.Database) *SourceRepo {
	var s story.Source
	return &SourceRepo{coll: db.Collection(s.Collection())}
}

// Create 创建源文本记录
func (r *SourceRepo) Create(ctx context.Context, src *story.Source) error {
	now := time.Now()
	src.CreatedAt = now
	src.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, src)
	return err
}

// FindByID 根据ID查询源文本
func (r *SourceRepo) FindByID(ctx context.Context, id string) (*story.Source, error) {
	var src story.Source
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&src); err != nil {
		return nil, err
	}
	return &src, nil
}

// FindByMD5 根据MD5查询源文本（去重）
func (r *SourceRepo) FindByMD5(ctx context.Context, md5 string) (*story.Source, error) {
	var src story.Source
	if err := r.coll.FindOne(ctx, bson.M{"md5": md5, "deleted_at": nil}).Decode(&src); err != nil {
		return nil, err
	}
	return &src, nil
}

// FindAll 分页查询源文本列表，按创建时间倒序
func (r *SourceRepo) FindAll(ctx context.Context, limit, offset int) ([]*story.Source, int64, error) {
	filter := bson.M{"deleted_at": nil}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var sources []*story.Source
	if err := cursor.All(ctx, &sources); err != nil {
		return nil, 0, err
	}
	return sources, total, nil
}

// Delete 软删除源文本
func (r *SourceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}
