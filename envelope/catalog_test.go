package envelope

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/suite"

	"github.com/bjaus/mediator"
)

type Ping struct {
	mediator.Returns[Pong]
	Message string `json:"message"`
}

type Pong struct {
	Message string `json:"message"`
}

type Touch struct {
	mediator.Void
	ID string `json:"id"`
}

type Labeled struct {
	mediator.Returns[string]
}

func (Labeled) RequestName() string { return "custom:label" }

type Note struct {
	Text string `json:"text"`
}

type Box[T any] struct {
	mediator.Returns[T]
	Value T `json:"value"`
}

type Pair[A, B any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
}

type captureSender struct {
	got mediator.Message
	res any
	err error
}

func (s *captureSender) SendAny(ctx context.Context, req any) (any, error) {
	s.got = req.(mediator.Message)
	return s.res, s.err
}

type CatalogSuite struct {
	suite.Suite
	faker   faker.Faker
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.faker = faker.New()
	s.catalog = New()
	Add[Ping](s.catalog)
	Add[*Touch](s.catalog)
	Add[Labeled](s.catalog)
	Add[Box[Note]](s.catalog)
}

func (s *CatalogSuite) TestNames() {
	s.Assert().Equal([]string{
		"custom:label",
		"envelope:box.note",
		"envelope:ping",
		"envelope:touch",
	}, s.catalog.Names())
}

func (s *CatalogSuite) TestNameOf() {
	s.Assert().Equal("envelope:ping", NameOf(Ping{}))
	s.Assert().Equal("envelope:touch", NameOf(&Touch{}))
	s.Assert().Equal("custom:label", NameOf(Labeled{}))
	s.Assert().Equal("envelope:box.note", NameOf(Box[Note]{}))
	s.Assert().Equal("envelope:box.note", NameOf(Box[*Note]{}))
}

func (s *CatalogSuite) TestNameOfNestedGeneric() {
	s.Assert().Equal("envelope:box.pair.int.string", NameOf(Box[Pair[int, string]]{}))
	s.Assert().Equal("envelope:box.pair.note.box.note", NameOf(Box[Pair[*Note, Box[Note]]]{}))
	s.Assert().Equal("envelope:box.box.note", NameOf(Box[Box[Note]]{}))

	Add[Box[Pair[int, string]]](s.catalog)
	msg, err := s.catalog.Decode([]byte(`{"request": "envelope:box.pair.int.string", "payload": {"value": {"first": 1, "second": "b"}}}`))
	s.Require().NoError(err)
	s.Assert().Equal(Box[Pair[int, string]]{Value: Pair[int, string]{First: 1, Second: "b"}}, msg)
}

func (s *CatalogSuite) TestDecodesValueRequest() {
	message := s.faker.Lorem().Sentence(6)
	raw := fmt.Appendf(nil, `{"request": "envelope:ping", "payload": {"message": %q}}`, message)

	msg, err := s.catalog.Decode(raw)

	s.Require().NoError(err)
	s.Assert().Equal(Ping{Message: message}, msg)
}

func (s *CatalogSuite) TestDecodesPointerRequest() {
	id := s.faker.Lorem().Word()
	raw := fmt.Appendf(nil, `{"request": "envelope:touch", "payload": {"id": %q}}`, id)

	msg, err := s.catalog.Decode(raw)

	s.Require().NoError(err)
	s.Assert().Equal(&Touch{ID: id}, msg)
}

func (s *CatalogSuite) TestDecodesGenericRequest() {
	msg, err := s.catalog.Decode([]byte(`{"request": "envelope:box.note", "payload": {"value": {"text": "hi"}}}`))

	s.Require().NoError(err)
	s.Assert().Equal(Box[Note]{Value: Note{Text: "hi"}}, msg)
}

func (s *CatalogSuite) TestMissingPayloadDecodesZeroRequest() {
	msg, err := s.catalog.Decode([]byte(`{"request": "custom:label"}`))

	s.Require().NoError(err)
	s.Assert().Equal(Labeled{}, msg)
}

func (s *CatalogSuite) TestErrors() {
	tests := map[string]struct {
		raw  string
		want error
	}{
		"invalid json":      {`{nope`, ErrInvalidJSON},
		"missing name":      {`{"payload": {}}`, ErrMalformedEnvelope},
		"empty name":        {`{"request": ""}`, ErrMalformedEnvelope},
		"name not a string": {`{"request": 7}`, ErrMalformedEnvelope},
		"unknown request":   {`{"request": "envelope:nope"}`, ErrUnknownRequest},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			_, err := s.catalog.Decode([]byte(tt.raw))
			s.Assert().ErrorIs(err, tt.want)
		})
	}
}

func (s *CatalogSuite) TestUnknownRequestCarriesName() {
	_, err := s.catalog.Decode([]byte(`{"request": "envelope:nope"}`))

	var unknown *UnknownRequestError
	s.Require().ErrorAs(err, &unknown)
	s.Assert().Equal("envelope:nope", unknown.Name)
}

func (s *CatalogSuite) TestPayloadDecodeError() {
	_, err := s.catalog.Decode([]byte(`{"request": "envelope:ping", "payload": {"message": 5}}`))

	s.Assert().Error(err)
	s.Assert().Contains(err.Error(), "envelope:ping")
}

func (s *CatalogSuite) TestCustomFieldsAndDiscriminator() {
	c := New(
		WithNameField("type"),
		WithPayloadField("data"),
		WithDiscriminator(FieldEquals("version", "1")),
	)
	Add[Ping](c)

	msg, err := c.Decode([]byte(`{"type": "envelope:ping", "version": "1", "data": {"message": "Ping"}}`))
	s.Require().NoError(err)
	s.Assert().Equal(Ping{Message: "Ping"}, msg)

	_, err = c.Decode([]byte(`{"type": "envelope:ping", "version": "2", "data": {}}`))
	s.Assert().ErrorIs(err, ErrMalformedEnvelope)
}

func (s *CatalogSuite) TestAddTwicePanics() {
	s.Assert().Panics(func() { Add[Ping](s.catalog) })
}

func (s *CatalogSuite) TestDispatchSendsDecodedRequest() {
	sender := &captureSender{res: Pong{Message: "Ping Pong"}}

	res, err := s.catalog.Dispatch(context.Background(), sender, []byte(`{"request": "envelope:ping", "payload": {"message": "Ping"}}`))

	s.Require().NoError(err)
	s.Assert().Equal(Pong{Message: "Ping Pong"}, res)
	s.Assert().Equal(Ping{Message: "Ping"}, sender.got)
}

func (s *CatalogSuite) TestDispatchReturnsSenderError() {
	wantErr := errors.New("boom")
	sender := &captureSender{err: wantErr}

	_, err := s.catalog.Dispatch(context.Background(), sender, []byte(`{"request": "envelope:ping"}`))

	s.Assert().ErrorIs(err, wantErr)
}

func (s *CatalogSuite) TestDispatchDoesNotSendUndecodable() {
	sender := &captureSender{}

	_, err := s.catalog.Dispatch(context.Background(), sender, []byte(`{"request": "envelope:nope"}`))

	s.Assert().ErrorIs(err, ErrUnknownRequest)
	s.Assert().Nil(sender.got)
}

func (s *CatalogSuite) TestDispatchThroughMediator() {
	reg := mediator.NewRegistry()
	mediator.RegisterFunc(reg, func(ctx context.Context, p Ping) (Pong, error) {
		return Pong{Message: p.Message + " Pong"}, nil
	})
	var touched string
	mediator.RegisterVoidFunc(reg, func(ctx context.Context, t *Touch) error {
		touched = t.ID
		return nil
	})
	m := mediator.New(reg)

	res, err := s.catalog.Dispatch(context.Background(), m, []byte(`{"request": "envelope:ping", "payload": {"message": "Ping"}}`))
	s.Require().NoError(err)
	s.Assert().Equal(Pong{Message: "Ping Pong"}, res)

	res, err = s.catalog.Dispatch(context.Background(), m, []byte(`{"request": "envelope:touch", "payload": {"id": "42"}}`))
	s.Require().NoError(err)
	s.Assert().Equal(mediator.Unit{}, res)
	s.Assert().Equal("42", touched)
}

type Signup struct {
	mediator.Void
	Email string `json:"email"`
}

func (s *Signup) Validate() error {
	if s.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

func (s *CatalogSuite) TestPayloadDecodeErrorIsInvalidPayload() {
	_, err := s.catalog.Decode([]byte(`{"request": "envelope:ping", "payload": {"message": 5}}`))

	s.Require().ErrorIs(err, ErrInvalidPayload)
	var pe *PayloadError
	s.Require().ErrorAs(err, &pe)
	s.Assert().Equal("envelope:ping", pe.Name)
	s.Assert().False(pe.Validation)
}

func (s *CatalogSuite) TestValidatesDecodedRequest() {
	c := New()
	name := Add[Signup](c)
	s.Require().Equal("envelope:signup", name)

	email := s.faker.Internet().Email()
	msg, err := c.Decode(fmt.Appendf(nil, `{"request": "envelope:signup", "payload": {"email": %q}}`, email))
	s.Require().NoError(err)
	s.Assert().Equal(email, msg.(Signup).Email)

	_, err = c.Decode([]byte(`{"request": "envelope:signup", "payload": {}}`))
	s.Require().ErrorIs(err, ErrInvalidPayload)
	var pe *PayloadError
	s.Require().ErrorAs(err, &pe)
	s.Assert().True(pe.Validation)
	s.Assert().EqualError(pe.Err, "email is required")
}

func (s *CatalogSuite) TestValidationBlocksDispatch() {
	c := New()
	Add[*Signup](c)
	sender := &captureSender{}

	_, err := c.Dispatch(context.Background(), sender, []byte(`{"request": "envelope:signup"}`))

	s.Assert().ErrorIs(err, ErrInvalidPayload)
	s.Assert().Nil(sender.got)
}
