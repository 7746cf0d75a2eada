package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/gmllt/kanbo/internal/config"
	"github.com/gmllt/kanbo/internal/model"
)

const boardObjectKey = "board.json"

// boardDoc is the JSON document stored as a single S3 object.
type boardDoc struct {
	Cards []model.Card `json:"cards"`
}

// S3 stores the whole board as one JSON object in an S3 bucket. Every
// mutation is a load-modify-save of that object. Compatible with MinIO and
// other S3-compatible services.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 initializes the S3 backend from the provided configuration and
// verifies the bucket exists.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		return nil, errors.New("S3 endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid S3 endpoint: %w", err)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolver(
			aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint, SigningRegion: cfg.Region}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	st := &S3{client: client, bucket: cfg.Bucket}
	if err := st.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *S3) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return fmt.Errorf("bucket %s does not exist", s.bucket)
		}
		return fmt.Errorf("error checking bucket: %w", err)
	}
	return nil
}

func (s *S3) load(ctx context.Context) ([]model.Card, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(boardObjectKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			// Missing object means a fresh board.
			return []model.Card{}, nil
		}
		return nil, fmt.Errorf("error loading board from S3: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading board data: %w", err)
	}
	var doc boardDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding board json: %w", err)
	}
	if doc.Cards == nil {
		doc.Cards = []model.Card{}
	}
	return doc.Cards, nil
}

func (s *S3) save(ctx context.Context, cards []model.Card) error {
	data, err := json.Marshal(boardDoc{Cards: cards})
	if err != nil {
		return fmt.Errorf("error encoding board json: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(boardObjectKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("error saving board to S3: %w", err)
	}
	return nil
}

func (s *S3) List(ctx context.Context) ([]model.Card, error) {
	cards, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sortCards(cards)
	return cards, nil
}

func (s *S3) Get(ctx context.Context, id string) (model.Card, error) {
	cards, err := s.load(ctx)
	if err != nil {
		return model.Card{}, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Card{}, ErrNotFound
}

func (s *S3) Create(ctx context.Context, c model.Card) (model.Card, error) {
	cards, err := s.load(ctx)
	if err != nil {
		return model.Card{}, err
	}
	c = prepareCreate(cards, c)
	if err := s.save(ctx, append(cards, c)); err != nil {
		return model.Card{}, err
	}
	return c, nil
}

func (s *S3) Patch(ctx context.Context, id string, p model.CardPatch) (model.Card, error) {
	if p.IsEmpty() {
		return model.Card{}, ErrEmptyPatch
	}
	cards, err := s.load(ctx)
	if err != nil {
		return model.Card{}, err
	}
	for i := range cards {
		if cards[i].ID == id {
			p.Apply(&cards[i])
			if err := s.save(ctx, cards); err != nil {
				return model.Card{}, err
			}
			return cards[i], nil
		}
	}
	return model.Card{}, ErrNotFound
}

func (s *S3) Delete(ctx context.Context, id string) error {
	cards, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range cards {
		if cards[i].ID == id {
			return s.save(ctx, append(cards[:i], cards[i+1:]...))
		}
	}
	return ErrNotFound
}

func (s *S3) Reorder(ctx context.Context, orders model.Snapshot) error {
	cards, err := s.load(ctx)
	if err != nil {
		return err
	}
	applyReorder(cards, orders)
	return s.save(ctx, cards)
}

func (s *S3) Close() error { return nil }
