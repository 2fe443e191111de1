// Package minio implements blobstore.Store for MinIO and other
// S3-compatible storage using the native MinIO client.
//
// Use this instead of the s3 package when talking to self-hosted storage
// where the AWS SDK's signing and endpoint handling gets in the way.
package minio
