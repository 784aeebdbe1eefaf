package storage

// Every value written to badger is a protobuf message encoded with package
// wire. Field numbers are part of the on-disk format and must never be reused:
//
//	MessageRecord  { 1 id, 2 sender_id, 3 recipient_id, 4 group_id, 5 ciphertext,
//	                 6 wrapped_key, 7 plaintext_echo, 8 created_at, 9 ttl_seconds,
//	                 10 read_once, 11 is_read, 12 is_destroyed, 13 length }
//	SentRecord     { 1 message_id, 2 recipient_id, 3 length, 4 at }
//	ArmedRecord    { 1 destruct_at, 2 read_once }
//	ThreatRecord   { 1 id, 2 user_id, 3 score, 4 reason, 5 at, 6 message_count, 7 distinct_recipients }
//	IdentityRecord { 1 public_key, 2 sealed_private_key, 3 created_at }
//
// Timestamps are nested google.protobuf.Timestamp messages.
