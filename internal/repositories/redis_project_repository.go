package repositories

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"autorag/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	projectKeyPrefix  = "project:"
	projectIndexKey   = "projects:index"
	projectDocsPrefix = "project:docs:"
	projectSessPrefix = "project:sessions:"
)

// RedisProjectRepository implements ProjectRepository using Redis
type RedisProjectRepository struct {
	client *redis.Client
}

// NewRedisProjectRepository creates a new Redis-based project repository
func NewRedisProjectRepository(client *redis.Client) *RedisProjectRepository {
	return &RedisProjectRepository{
		client: client,
	}
}

// Create stores a new project
func (r *RedisProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	project.CreatedAt = time.Now()

	data, err := json.Marshal(project)
	if err != nil {
		return NewRepositoryError("create_project", project.ID, err, "failed to marshal project")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, projectKeyPrefix+project.ID, data, 0)
	pipe.SAdd(ctx, projectIndexKey, project.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewRepositoryError("create_project", project.ID, err, "")
	}

	return nil
}

// Get retrieves a project by ID
func (r *RedisProjectRepository) Get(ctx context.Context, projectID string) (*models.Project, error) {
	data, err := r.client.Get(ctx, projectKeyPrefix+projectID).Result()
	if err == redis.Nil {
		return nil, ProjectNotFoundError(projectID)
	}
	if err != nil {
		return nil, NewRepositoryError("get_project", projectID, err, "")
	}

	var project models.Project
	if err := json.Unmarshal([]byte(data), &project); err != nil {
		return nil, NewRepositoryError("get_project", projectID, err, "failed to unmarshal project")
	}

	return &project, nil
}

// List returns all projects, newest first
func (r *RedisProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	ids, err := r.client.SMembers(ctx, projectIndexKey).Result()
	if err != nil {
		return nil, NewRepositoryError("list_projects", "", err, "")
	}

	projects := make([]*models.Project, 0, len(ids))
	for _, id := range ids {
		project, err := r.Get(ctx, id)
		if err != nil {
			// Skip dangling index entries
			continue
		}
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

// Delete removes a project. Documents and sessions are removed by the
// service layer before the project record itself.
func (r *RedisProjectRepository) Delete(ctx context.Context, projectID string) error {
	exists, err := r.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return ProjectNotFoundError(projectID)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, projectKeyPrefix+projectID)
	pipe.SRem(ctx, projectIndexKey, projectID)
	pipe.Del(ctx, projectDocsPrefix+projectID)
	pipe.Del(ctx, projectSessPrefix+projectID)

	if _, err := pipe.Exec(ctx); err != nil {
		return NewRepositoryError("delete_project", projectID, err, "")
	}

	return nil
}

// Exists checks if a project exists
func (r *RedisProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	n, err := r.client.Exists(ctx, projectKeyPrefix+projectID).Result()
	if err != nil {
		return false, NewRepositoryError("exists_project", projectID, err, "")
	}
	return n > 0, nil
}
