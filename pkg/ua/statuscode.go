// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ua

import "fmt"

// StatusCode is a severity-tagged result code carried in every response header.
type StatusCode uint32

const (
	severityMask      uint32 = 0xC0000000
	severityGood      uint32 = 0x00000000
	severityUncertain uint32 = 0x40000000
	severityBad       uint32 = 0x80000000
)

// Status codes used at the client core's boundary. Values match Part 6 of
// the OPC UA binary specification so that they interoperate with real
// servers; only the subset the core's state machine and multiplexer
// manufacture or must recognize are enumerated here.
const (
	StatusGood                      StatusCode = 0x00000000
	StatusUncertain                 StatusCode = 0x40000000
	StatusBad                       StatusCode = 0x80000000
	StatusBadUnexpectedError        StatusCode = 0x80010000
	StatusBadInternalError          StatusCode = 0x80020000
	StatusBadOutOfMemory            StatusCode = 0x80030000
	StatusBadCommunicationError     StatusCode = 0x80050000
	StatusBadEncodingError          StatusCode = 0x80060000
	StatusBadDecodingError          StatusCode = 0x80070000
	StatusBadTimeout                StatusCode = 0x800A0000
	StatusBadServiceUnsupported     StatusCode = 0x800B0000
	StatusBadShutdown               StatusCode = 0x800C0000
	StatusBadServerNotConnected     StatusCode = 0x800D0000
	StatusBadTooManyOperations      StatusCode = 0x80100000
	StatusBadInvalidArgument        StatusCode = 0x80AB0000
	StatusBadNotConnected           StatusCode = 0x808A0000
	StatusBadSecureChannelClosed    StatusCode = 0x80860000
	StatusBadSecureChannelIDInvalid StatusCode = 0x80220000
	StatusBadConnectionClosed       StatusCode = 0x80AE0000
	StatusBadSessionClosed          StatusCode = 0x80260000
	StatusBadSessionIDInvalid       StatusCode = 0x80250000
	StatusBadSessionNotActivated    StatusCode = 0x80270000
	StatusBadNoSubscription         StatusCode = 0x80790000
	StatusBadTooManyPublishRequests StatusCode = 0x80780000
	StatusBadRequestTimeout         StatusCode = 0x80850000
	StatusBadNothingToDo            StatusCode = 0x800F0000
	StatusBadSequenceNumberInvalid  StatusCode = 0x80880000
	StatusBadCertificateInvalid     StatusCode = 0x80120000
	StatusBadSecurityPolicyRejected StatusCode = 0x80550000
)

var statusNames = map[StatusCode]string{
	StatusGood:                      "Good",
	StatusUncertain:                 "Uncertain",
	StatusBad:                       "Bad",
	StatusBadUnexpectedError:        "BadUnexpectedError",
	StatusBadInternalError:          "BadInternalError",
	StatusBadOutOfMemory:            "BadOutOfMemory",
	StatusBadCommunicationError:     "BadCommunicationError",
	StatusBadEncodingError:          "BadEncodingError",
	StatusBadDecodingError:          "BadDecodingError",
	StatusBadTimeout:                "BadTimeout",
	StatusBadServiceUnsupported:     "BadServiceUnsupported",
	StatusBadShutdown:               "BadShutdown",
	StatusBadServerNotConnected:     "BadServerNotConnected",
	StatusBadTooManyOperations:      "BadTooManyOperations",
	StatusBadInvalidArgument:        "BadInvalidArgument",
	StatusBadNotConnected:           "BadNotConnected",
	StatusBadSecureChannelClosed:    "BadSecureChannelClosed",
	StatusBadSecureChannelIDInvalid: "BadSecureChannelIdInvalid",
	StatusBadConnectionClosed:       "BadConnectionClosed",
	StatusBadSessionClosed:          "BadSessionClosed",
	StatusBadSessionIDInvalid:       "BadSessionIdInvalid",
	StatusBadSessionNotActivated:    "BadSessionNotActivated",
	StatusBadNoSubscription:         "BadNoSubscription",
	StatusBadTooManyPublishRequests: "BadTooManyPublishRequests",
	StatusBadRequestTimeout:         "BadRequestTimeout",
	StatusBadNothingToDo:            "BadNothingToDo",
	StatusBadSequenceNumberInvalid:  "BadSequenceNumberInvalid",
	StatusBadCertificateInvalid:     "BadCertificateInvalid",
	StatusBadSecurityPolicyRejected: "BadSecurityPolicyRejected",
}

// IsGood reports whether the code carries no error.
func (s StatusCode) IsGood() bool { return uint32(s)&severityMask == severityGood }

// IsUncertain reports whether the code's severity is Uncertain.
func (s StatusCode) IsUncertain() bool { return uint32(s)&severityMask == severityUncertain }

// IsBad reports whether the code's severity is Bad.
func (s StatusCode) IsBad() bool { return uint32(s)&severityMask == severityBad }

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StatusCode(0x%08X)", uint32(s))
}

// Error implements error so a StatusCode can be returned or wrapped directly.
func (s StatusCode) Error() string {
	return s.String()
}
