package impl

import (
	"context"
	"log/slog"

	"qbank/internal/domain/entity"
	"qbank/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// buildUserViews expands the content lists of users with two batched lookups:
// one for the referenced questions and one for their creators.
// References to questions that no longer exist are dropped.
func (srv *userService) buildUserViews(ctx context.Context, users []*entity.User, withID bool) ([]*usecase.UserView, error) {
	questions, err := srv.loadQuestions(ctx, users)
	if err != nil {
		return nil, err
	}

	creators, err := srv.loadCreators(ctx, questions)
	if err != nil {
		return nil, err
	}

	questionViews := make(map[uuid.UUID]*usecase.QuestionView, len(questions))
	for id, q := range questions {
		questionViews[id] = toQuestionView(q, creators[q.CreatedBy])
	}

	views := make([]*usecase.UserView, 0, len(users))
	for _, user := range users {
		view := &usecase.UserView{
			Name:               user.Name,
			Email:              user.Email,
			IsAdmin:            user.IsAdmin,
			QuestionCreated:    collectQuestionViews(questionViews, user.QuestionsCreated),
			QuestionBookmarked: collectQuestionViews(questionViews, user.QuestionsBookmarked),
			AttemptedQuestions: make([]*usecase.AttemptView, 0, len(user.AttemptedQuestions)),
		}
		if withID {
			view.ID = user.ID.String()
		}

		for _, attempt := range user.AttemptedQuestions {
			qv, ok := questionViews[attempt.QuestionID]
			if !ok {
				continue
			}
			view.AttemptedQuestions = append(view.AttemptedQuestions, &usecase.AttemptView{
				Question:        qv,
				IsAnswerCorrect: attempt.IsAnswerCorrect,
			})
		}

		views = append(views, view)
	}

	return views, nil
}

func (srv *userService) loadQuestions(ctx context.Context, users []*entity.User) (map[uuid.UUID]*entity.Question, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, user := range users {
		for _, id := range user.ReferencedQuestionIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	questions := make(map[uuid.UUID]*entity.Question, len(ids))
	if len(ids) == 0 {
		return questions, nil
	}

	found, err := srv.questionRepo.FindByIDs(ctx, ids)
	if err != nil {
		srv.log(ctx).Error("Failed to load referenced questions", slog.Int("count", len(ids)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find questions by ids")
	}

	for _, q := range found {
		questions[q.ID] = q
	}

	return questions, nil
}

func (srv *userService) loadCreators(ctx context.Context, questions map[uuid.UUID]*entity.Question) (map[uuid.UUID]*entity.User, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, q := range questions {
		if q.CreatedBy == uuid.Nil {
			continue
		}
		if _, ok := seen[q.CreatedBy]; ok {
			continue
		}
		seen[q.CreatedBy] = struct{}{}
		ids = append(ids, q.CreatedBy)
	}

	creators := make(map[uuid.UUID]*entity.User, len(ids))
	if len(ids) == 0 {
		return creators, nil
	}

	found, err := srv.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		srv.log(ctx).Error("Failed to load question creators", slog.Int("count", len(ids)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find users by ids")
	}

	for _, u := range found {
		creators[u.ID] = u
	}

	return creators, nil
}

func collectQuestionViews(questionViews map[uuid.UUID]*usecase.QuestionView, ids []uuid.UUID) []*usecase.QuestionView {
	views := make([]*usecase.QuestionView, 0, len(ids))
	for _, id := range ids {
		if qv, ok := questionViews[id]; ok {
			views = append(views, qv)
		}
	}

	return views
}

func toQuestionView(q *entity.Question, creator *entity.User) *usecase.QuestionView {
	tags := make([]string, 0, len(q.Tags))
	for _, tag := range q.Tags {
		tags = append(tags, tag.String())
	}

	view := &usecase.QuestionView{
		ID:                 q.ID.String(),
		Title:              q.Title,
		Description:        q.Description,
		File:               q.File,
		Links:              q.Links,
		Tags:               tags,
		Type:               q.Type,
		Options:            q.Options,
		CorrectAnswerIndex: q.CorrectAnswerIndex,
		CorrectAnswer:      q.CorrectAnswer,
		CreatedByName:      q.CreatedByName,
	}

	// Only the public fields of the creator are exposed.
	if creator != nil {
		view.CreatedBy = &usecase.CreatorView{
			Name:  creator.Name,
			Email: creator.Email,
		}
	}

	return view
}
