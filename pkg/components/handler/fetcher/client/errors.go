/*
 * Copyright 2025 InfAI (CC SES)
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import "strconv"

type ResponseError struct {
	Code    int
	Message string
}

func NewResponseError(code int, msg string) *ResponseError {
	return &ResponseError{
		Code:    code,
		Message: msg,
	}
}

func (e *ResponseError) Error() string {
	return strconv.FormatInt(int64(e.Code), 10) + " " + e.Message
}
