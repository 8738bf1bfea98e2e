// Copyright (c) 2020-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package progresslog provides periodic logging for block header sync.

Tests are included to ensure proper functionality.

# Feature Overview

  - Maintains cumulative totals about synced blocks between each logging
    interval
  - Total number of blocks
  - Total number of notes returned for the client's note tags
  - Total number of notes relevant to tracked accounts
  - Logs all cumulative data every 10 seconds
  - Immediately logs any outstanding data when forced, such as once the chain
    tip is reached
*/
package progresslog
