package e2e

import (
	"context"
	"fmt"
	"tactical-link/infrastructure/grpc/client"
	"tactical-link/infrastructure/grpc/rpc"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type testMessagingSuite struct {
	BaseGrpcSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, &testMessagingSuite{})
}

func (s *testMessagingSuite) TestReadOnceFlow() {
	alice, aliceToken := s.Provision("alice")
	bob, bobToken := s.Provision("bob")
	_, malloryToken := s.Provision("mallory")
	var messageID string

	s.Run("Step 1: Alice sends a read-once message and keeps an echo", func() {
		s.WithClient("Send read-once", aliceToken, func(ctx context.Context, c *client.MessageClient) {
			resp, err := c.Send(ctx, &rpc.SendRequest{RecipientID: bob, Content: []byte("rendezvous at 0600"), ReadOnce: true, KeepEcho: true})
			s.Require().NoError(err)
			s.Require().NotEmpty(resp.MessageID)
			s.Require().Equal("LOW", resp.RiskLevel)
			messageID = resp.MessageID

			sent, err := c.ListSent(ctx)
			s.Require().NoError(err)
			s.Require().Len(sent.Messages, 1)
			s.Require().Equal("rendezvous at 0600", string(sent.Messages[0].Echo))
			s.Require().Nil(sent.Messages[0].DestructAt)
		})
	})

	s.Run("Step 2: A third party cannot destroy the message", func() {
		s.WithClient("Unauthorized delete", malloryToken, func(ctx context.Context, c *client.MessageClient) {
			err := c.Delete(ctx, messageID)
			s.Require().Equal(codes.PermissionDenied, status.Code(err))
		})
	})

	s.Run("Step 3: Bob reads it exactly once", func() {
		s.WithClient("Receive", bobToken, func(ctx context.Context, c *client.MessageClient) {
			resp, err := c.Receive(ctx)
			s.Require().NoError(err)
			s.Require().Len(resp.Messages, 1)
			s.Require().Equal(alice, resp.Messages[0].SenderID)
			s.Require().Equal("rendezvous at 0600", string(resp.Messages[0].Content))
			s.Require().True(resp.Messages[0].ReadOnce)

			resp, err = c.Receive(ctx)
			s.Require().NoError(err)
			s.Require().Empty(resp.Messages)
		})
	})

	s.Run("Step 4: The echo is gone with the message", func() {
		s.WithClient("List sent after destruction", aliceToken, func(ctx context.Context, c *client.MessageClient) {
			s.Require().Eventually(func() bool {
				sent, err := c.ListSent(ctx)
				return err == nil && len(sent.Messages) == 0
			}, 5*time.Second, 50*time.Millisecond)

			err := c.Delete(ctx, messageID)
			s.Require().Equal(codes.NotFound, status.Code(err))
		})
	})
}

func (s *testMessagingSuite) TestTimedDestruction() {
	_, aliceToken := s.Provision("alice")
	bob, bobToken := s.Provision("bob")

	s.WithClient("Send with a one second TTL", aliceToken, func(ctx context.Context, c *client.MessageClient) {
		_, err := c.Send(ctx, &rpc.SendRequest{RecipientID: bob, Content: []byte("burn after reading"), TTLSeconds: 1})
		s.Require().NoError(err)
	})

	s.WithClient("Receive after expiry", bobToken, func(ctx context.Context, c *client.MessageClient) {
		time.Sleep(1500 * time.Millisecond)
		resp, err := c.Receive(ctx)
		s.Require().NoError(err)
		s.Require().Empty(resp.Messages)
		s.Require().Empty(resp.Skipped)
	})
}

func (s *testMessagingSuite) TestManualDestructionBySender() {
	_, aliceToken := s.Provision("alice")
	bob, bobToken := s.Provision("bob")

	s.WithClient("Send then delete", aliceToken, func(ctx context.Context, c *client.MessageClient) {
		resp, err := c.Send(ctx, &rpc.SendRequest{RecipientID: bob, Content: []byte("abort"), TTLSeconds: 3600})
		s.Require().NoError(err)
		s.Require().NoError(c.Delete(ctx, resp.MessageID))
	})

	s.WithClient("Nothing left to receive", bobToken, func(ctx context.Context, c *client.MessageClient) {
		resp, err := c.Receive(ctx)
		s.Require().NoError(err)
		s.Require().Empty(resp.Messages)
	})
}

func (s *testMessagingSuite) TestThreatBurst() {
	sender, senderToken := s.Provision("burst")
	recipients := make([]string, 20)
	for i := range recipients {
		recipients[i], _ = s.Provision(fmt.Sprintf("target%02d", i))
	}

	s.Run("Step 1: Twenty rapid messages to distinct recipients", func() {
		s.WithClient("Burst", senderToken, func(ctx context.Context, c *client.MessageClient) {
			var last *rpc.SendResponse
			for _, recipient := range recipients {
				resp, err := c.Send(ctx, &rpc.SendRequest{RecipientID: recipient, Content: []byte("ping"), TTLSeconds: 60})
				s.Require().NoError(err)
				last = resp
			}
			s.Require().Equal("HIGH", last.RiskLevel)
			s.Require().Greater(last.ThreatScore, 70.0)

			_, err := c.ListThreats(ctx, 10)
			s.Require().Equal(codes.PermissionDenied, status.Code(err))
		})
	})

	s.Run("Step 2: Operators see the threat records", func() {
		s.WithClient("Operator view", s.OperatorToken("ops"), func(ctx context.Context, c *client.MessageClient) {
			score, err := c.Score(ctx, sender)
			s.Require().NoError(err)
			s.Require().Equal("HIGH", score.RiskLevel)
			s.Require().Equal(20, score.DistinctRecipients)

			s.Require().Eventually(func() bool {
				resp, err := c.SearchThreats(ctx, &rpc.SearchThreatsRequest{UserID: sender, MinScore: 70, Limit: 50})
				return err == nil && len(resp.Records) > 0
			}, 5*time.Second, 100*time.Millisecond)

			recent, err := c.ListThreats(ctx, 100)
			s.Require().NoError(err)
			s.Require().NotEmpty(recent.Records)
		})
	})
}

func (s *testMessagingSuite) TestConversation() {
	alice, aliceToken := s.Provision("alice")
	bob, bobToken := s.Provision("bob")

	s.Run("Step 1: Both parties write, one read-once message among them", func() {
		s.WithClient("Alice writes", aliceToken, func(ctx context.Context, c *client.MessageClient) {
			_, err := c.Send(ctx, &rpc.SendRequest{RecipientID: bob, Content: []byte("radio check"), KeepEcho: true})
			s.Require().NoError(err)
			_, err = c.Send(ctx, &rpc.SendRequest{RecipientID: bob, Content: []byte("burn this"), ReadOnce: true, KeepEcho: true})
			s.Require().NoError(err)
		})
		s.WithClient("Bob answers", bobToken, func(ctx context.Context, c *client.MessageClient) {
			_, err := c.Send(ctx, &rpc.SendRequest{RecipientID: alice, Content: []byte("loud and clear"), TTLSeconds: 600})
			s.Require().NoError(err)
		})
	})

	s.Run("Step 2: Bob sees the history without the read-once message", func() {
		s.WithClient("Bob conversation", bobToken, func(ctx context.Context, c *client.MessageClient) {
			resp, err := c.Conversation(ctx, alice)
			s.Require().NoError(err)
			s.Require().Len(resp.Messages, 2)
			s.Require().Equal("radio check", string(resp.Messages[0].Content))
			s.Require().False(resp.Messages[0].Outgoing)
			s.Require().True(resp.Messages[1].Outgoing)
			s.Require().NotNil(resp.Messages[1].DestructAt)

			// The read-once message is still waiting
			received, err := c.Receive(ctx)
			s.Require().NoError(err)
			s.Require().Len(received.Messages, 2)
		})
	})

	s.Run("Step 3: Alice sees her echo and Bob's answer", func() {
		s.WithClient("Alice conversation", aliceToken, func(ctx context.Context, c *client.MessageClient) {
			resp, err := c.Conversation(ctx, bob)
			s.Require().NoError(err)
			s.Require().Len(resp.Messages, 2)
			s.Require().Equal("radio check", string(resp.Messages[0].Content))
			s.Require().True(resp.Messages[0].IsRead)
			s.Require().Equal("loud and clear", string(resp.Messages[1].Content))
		})
	})
}

func (s *testMessagingSuite) TestAnonymousCallsAreRejected() {
	s.WithClient("Anonymous receive", "", func(ctx context.Context, c *client.MessageClient) {
		_, err := c.Receive(ctx)
		s.Require().Equal(codes.Unauthenticated, status.Code(err))

		_, err = c.WithToken("forged").Send(ctx, &rpc.SendRequest{RecipientID: "anyone", Content: []byte("x")})
		s.Require().Equal(codes.Unauthenticated, status.Code(err))
	})
}
