package services

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type Feedback struct {
	c *api.Client
	v *validator.Validate
}

type FeedbackInput struct {
	OrderID *uint  `json:"order_id,omitempty"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

func (f *Feedback) Submit(ctx context.Context, in FeedbackInput) (models.Feedback, error) {
	var out models.Feedback
	if err := validate(f.v, "feedback.submit", in); err != nil {
		return out, err
	}
	err := f.c.Post(ctx, "feedback", "submit", nil, in, &out)
	return out, err
}

func (f *Feedback) List(ctx context.Context) ([]models.Feedback, error) {
	return getList[models.Feedback](ctx, f.c, "feedback", "list", api.Request{}, "feedback")
}

type Contact struct {
	c *api.Client
	v *validator.Validate
}

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=120"`
	Message string `json:"message" binding:"required,min=10,max=2000"`
}

func (c *Contact) Send(ctx context.Context, in ContactInput) error {
	if err := validate(c.v, "contact.send", in); err != nil {
		return err
	}
	return c.c.Post(ctx, "contact", "send", nil, in, nil)
}

// Video relays support-call signaling. The media itself never touches the
// backend; only offers, answers and candidates pass through.
type Video struct {
	c *api.Client
}

func (v *Video) Create(ctx context.Context) (models.VideoSession, error) {
	var s models.VideoSession
	err := v.c.Post(ctx, "video", "create", nil, nil, &s)
	return s, err
}

func (v *Video) Join(ctx context.Context, id string) (models.VideoSession, error) {
	var s models.VideoSession
	err := v.c.Post(ctx, "video", "join", api.Params{"id": id}, nil, &s)
	return s, err
}

// Signal posts sig and returns the signals queued for the caller since the last call
func (v *Video) Signal(ctx context.Context, id string, sig models.VideoSignal) ([]models.VideoSignal, error) {
	var pending []models.VideoSignal
	err := v.c.Post(ctx, "video", "signal", api.Params{"id": id}, sig, &pending)
	return pending, err
}

func (v *Video) End(ctx context.Context, id string) error {
	return v.c.Delete(ctx, "video", "end", api.Params{"id": id}, nil)
}
